// Package issues implements issue grouping for mamadoc. An issue is a
// logical matter spanning one or more documents over time; the matcher
// decides whether a newly extracted document joins an existing issue or
// starts a new one, and reconcile keeps issue status, urgency, and
// latest-document pointers derived from the attached documents.
package issues

import (
	"time"

	"github.com/google/uuid"
)

// Issue statuses.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
	StatusReopened = "reopened"
)

// Issue is a group of related documents about the same matter.
type Issue struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Sender           string     `json:"sender"`
	SenderNorm       string     `json:"sender_norm"`
	RefNumbers       []string   `json:"ref_numbers"`
	Category         string     `json:"category"`
	Status           string     `json:"status"`
	Urgency          string     `json:"urgency"`
	FirstSeen        *string    `json:"first_seen"`
	LatestDate       *string    `json:"latest_date"`
	LatestDeadline   *string    `json:"latest_deadline"`
	LatestDocumentID *uuid.UUID `json:"latest_document_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DocumentCount    int        `json:"document_count"`
}

// Candidate is the compact issue view the matcher scores against.
// SenderNorm and RefNumbers hold normalized values.
type Candidate struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Sender     string    `json:"sender"`
	SenderNorm string    `json:"-"`
	RefNumbers []string  `json:"ref_numbers"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	FirstSeen  *string   `json:"first_seen"`
	LatestDate *string   `json:"latest_date"`
	DocCount   int       `json:"doc_count"`
	UpdatedAt  time.Time `json:"-"`
}

// TimelineEntry is one document in an issue's chronological history.
type TimelineEntry struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	DocType    string    `json:"doc_type"`
	DocDate    *string   `json:"doc_date"`
	LetterType string    `json:"letter_type"`
	Subject    string    `json:"subject"`
	Urgency    string    `json:"urgency"`
	Amount     *float64  `json:"amount"`
	Deadline   *string   `json:"deadline"`
}

// NextStatus returns the issue status after attaching a document with the
// given letter type, where the document is the issue's most recent.
// Receipts and confirmations resolve the matter; action-bearing letters
// reopen a resolved one. Informational letters leave status untouched.
func NextStatus(current, letterType string) string {
	switch letterType {
	case "receipt", "confirmation":
		return StatusResolved
	case "original", "reminder", "final_notice":
		if current == StatusResolved {
			return StatusReopened
		}
		return current
	default:
		return current
	}
}
