package library

import (
	"time"

	"github.com/inkwell-app/inkwell/internal/llm"
	"github.com/inkwell-app/inkwell/internal/story"
)

// StoredStory is a generated story persisted to a user's personal library.
type StoredStory struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	Prompt         string      `json:"prompt"`
	Model          string      `json:"model"`
	WordCount      int         `json:"word_count"`
	ExtractedTags  []story.Tag `json:"extracted_tags"`
	MatchedExample story.Tag   `json:"matched_example,omitempty"`
	Usage          llm.Usage   `json:"usage"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ListFilter controls which stories to return.
type ListFilter struct {
	UserID string
	Limit  int
	Offset int
}
