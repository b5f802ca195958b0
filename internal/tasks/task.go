// Package tasks implements the personal task list: free-standing
// reminders that are not tied to any document.
package tasks

import (
	"time"

	"github.com/google/uuid"
)

// Task is one personal reminder.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	Deadline    *string    `json:"deadline"`
	Done        bool       `json:"done"`
	DoneAt      *time.Time `json:"done_at"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateCommand carries a new task.
type CreateCommand struct {
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"`
	Notes       string  `json:"notes"`
}

// UpdateCommand carries partial edits. Nil fields are left unchanged.
type UpdateCommand struct {
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Notes       *string `json:"notes"`
}
