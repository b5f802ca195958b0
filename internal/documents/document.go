// Package documents implements the document domain for mamadoc: the
// persisted record of one processed PDF, its extracted metadata, and its
// link to an issue.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document statuses.
const (
	StatusNew        = "new"
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Document represents one processed PDF with its extracted metadata.
// Dates are YYYY-MM-DD strings matching the extraction wire format.
type Document struct {
	ID               uuid.UUID  `json:"id"`
	Filename         string     `json:"filename"`
	ContentHash      string     `json:"content_hash"`
	ProcessedAt      time.Time  `json:"processed_at"`
	DocType          string     `json:"doc_type"`
	DocDate          *string    `json:"doc_date"`
	Sender           string     `json:"sender"`
	Subject          string     `json:"subject"`
	Amount           *float64   `json:"amount"`
	Deadline         *string    `json:"deadline"`
	Urgency          string     `json:"urgency"`
	LetterType       string     `json:"letter_type"`
	ReferenceNumbers []string   `json:"reference_numbers"`
	Summary          string     `json:"summary"`
	Recommendation   string     `json:"recommendation"`
	ArtifactKey      string     `json:"artifact_key"`
	PageCount        int        `json:"page_count"`
	Status           string     `json:"status"`
	IssueID          *uuid.UUID `json:"issue_id"`
}

// ActionView is the compact action item representation embedded in a
// document detail response.
type ActionView struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Deadline    *string   `json:"deadline"`
	Done        bool      `json:"done"`
	Source      string    `json:"source"`
}

// Detail is a document with its action items.
type Detail struct {
	Document
	ActionItems []ActionView `json:"action_items"`
}
