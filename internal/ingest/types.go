package ingest

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	KeyPDFPath      = "pdf_path"
	KeyTempDir      = "temp_dir"
	KeyFilename     = "filename"
	KeyContentHash  = "content_hash"
	KeyArtifactKey  = "artifact_key"
	KeyForce        = "force"
	KeyPages        = "pages"
	KeyRecord       = "record"
	KeyWarnings     = "warnings"
	KeyDocument     = "document"
	KeyCreated      = "created"
	KeyIssueID      = "issue_id"
	KeyIssueCreated = "issue_created"
	KeyTracker      = "tracker"
)

// Page references one rendered page image in the temp directory and its
// uploaded artifact key.
type Page struct {
	PageNumber int
	ImagePath  string
	Key        string
}

// Result is the final output from one pipeline execution.
type Result struct {
	Filename     string     `json:"filename"`
	Skipped      bool       `json:"skipped"`
	DocumentID   uuid.UUID  `json:"document_id"`
	Created      bool       `json:"created"`
	PageCount    int        `json:"page_count"`
	IssueID      *uuid.UUID `json:"issue_id"`
	IssueCreated bool       `json:"issue_created"`
	Warnings     []string   `json:"warnings,omitempty"`
	CompletedAt  time.Time  `json:"completed_at"`
}

// tracker records the artifact keys a pipeline run has uploaded so a
// failed run can remove them again. Nodes share one instance through the
// state bag.
type tracker struct {
	mu   sync.Mutex
	keys []string
}

func (t *tracker) add(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys = append(t.keys, key)
}

func (t *tracker) uploaded() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.keys...)
}
