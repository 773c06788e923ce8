package quota

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/inkwell-app/inkwell/internal/db"
)

// ErrQuotaExceeded is returned by Consume when the user has no generations
// left today.
var ErrQuotaExceeded = errors.New("daily generation quota exceeded")

// Store tracks per-user daily generation counts. Days roll over at UTC
// midnight.
type Store struct {
	db    *db.DB
	limit int
}

// NewStore creates a quota store with the given daily limit. A limit of 0
// or less disables quota enforcement.
func NewStore(database *db.DB, limit int) *Store {
	return &Store{db: database, limit: limit}
}

// Limit returns the configured daily limit.
func (s *Store) Limit() int { return s.limit }

func day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Used returns how many generations the user has consumed today.
func (s *Store) Used(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM generation_counts WHERE user_id = ? AND day = ?`,
		userID, day(time.Now())).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading quota: %w", err)
	}
	return count, nil
}

// Remaining returns how many generations the user has left today. Returns
// -1 when quota enforcement is disabled.
func (s *Store) Remaining(ctx context.Context, userID string) (int, error) {
	if s.limit <= 0 {
		return -1, nil
	}
	used, err := s.Used(ctx, userID)
	if err != nil {
		return 0, err
	}
	remaining := s.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Consume records one generation for the user, failing with
// ErrQuotaExceeded when the daily limit is already reached. The check and
// increment run in one transaction so concurrent requests cannot overshoot.
func (s *Store) Consume(ctx context.Context, userID string) error {
	if s.limit <= 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting quota transaction: %w", err)
	}
	defer tx.Rollback()

	today := day(time.Now())

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT count FROM generation_counts WHERE user_id = ? AND day = ?`,
		userID, today).Scan(&count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reading quota: %w", err)
	}

	if count >= s.limit {
		return ErrQuotaExceeded
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO generation_counts (user_id, day, count) VALUES (?, ?, 1)
		 ON CONFLICT(user_id, day) DO UPDATE SET count = count + 1`,
		userID, today)
	if err != nil {
		return fmt.Errorf("recording generation: %w", err)
	}

	return tx.Commit()
}
