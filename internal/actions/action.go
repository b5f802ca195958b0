// Package actions implements action item tracking: concrete follow-ups
// extracted from documents plus manually filed ones.
package actions

import (
	"time"

	"github.com/google/uuid"
)

// Action item sources.
const (
	SourceExtracted = "extracted"
	SourceManual    = "manual"
)

// Action is one follow-up item, optionally tied to a document.
// Deadlines are YYYY-MM-DD strings matching the extraction wire format.
type Action struct {
	ID          uuid.UUID  `json:"id"`
	DocumentID  *uuid.UUID `json:"document_id"`
	Description string     `json:"description"`
	Deadline    *string    `json:"deadline"`
	Done        bool       `json:"done"`
	DoneAt      *time.Time `json:"done_at"`
	Source      string     `json:"source"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateCommand carries a manually filed action item.
type CreateCommand struct {
	Description string     `json:"description"`
	Deadline    *string    `json:"deadline"`
	DocumentID  *uuid.UUID `json:"document_id"`
	Notes       string     `json:"notes"`
}

// UpdateCommand carries partial edits. Nil fields are left unchanged.
type UpdateCommand struct {
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Notes       *string `json:"notes"`
}
