package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell/internal/db"
	"github.com/inkwell-app/inkwell/internal/story"
)

// Store manages persistence of generated stories.
type Store struct {
	db *db.DB
}

// NewStore creates a new library store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create persists a story. A missing ID and timestamp are filled in.
func (s *Store) Create(ctx context.Context, st StoredStory) (*StoredStory, error) {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	if st.UserID == "" {
		st.UserID = "anonymous"
	}

	tags, err := json.Marshal(st.ExtractedTags)
	if err != nil {
		return nil, fmt.Errorf("encoding tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO stories (id, user_id, title, content, prompt, model, word_count, extracted_tags, matched_example,
		                      prompt_tokens, completion_tokens, total_tokens, cost, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.UserID, st.Title, st.Content, st.Prompt, st.Model, st.WordCount, string(tags), string(st.MatchedExample),
		st.Usage.PromptTokens, st.Usage.CompletionTokens, st.Usage.TotalTokens, st.Usage.Cost, st.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting story: %w", err)
	}
	return &st, nil
}

const storyColumns = `id, user_id, title, content, prompt, model, word_count, extracted_tags, matched_example,
	prompt_tokens, completion_tokens, total_tokens, cost, created_at`

// GetByID retrieves a story by its ID, or nil when it does not exist.
func (s *Store) GetByID(ctx context.Context, id string) (*StoredStory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, id)
	st, err := scanStory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting story: %w", err)
	}
	return st, nil
}

// List returns the user's stories, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]StoredStory, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE 1=1`
	args := []interface{}{}

	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}
	defer rows.Close()

	var stories []StoredStory
	for rows.Next() {
		st, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning story: %w", err)
		}
		stories = append(stories, *st)
	}
	return stories, rows.Err()
}

// Delete removes a story owned by the given user.
func (s *Store) Delete(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM stories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting story: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("story not found: %s", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStory(row scanner) (*StoredStory, error) {
	var st StoredStory
	var tags, matched string
	err := row.Scan(&st.ID, &st.UserID, &st.Title, &st.Content, &st.Prompt, &st.Model, &st.WordCount,
		&tags, &matched,
		&st.Usage.PromptTokens, &st.Usage.CompletionTokens, &st.Usage.TotalTokens, &st.Usage.Cost,
		&st.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &st.ExtractedTags); err != nil {
		st.ExtractedTags = nil
	}
	st.MatchedExample = story.Tag(matched)
	return &st, nil
}
