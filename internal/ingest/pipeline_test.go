package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/capraCoder/mamadoc/internal/config"
	"github.com/capraCoder/mamadoc/internal/documents"
	"github.com/capraCoder/mamadoc/pkg/pagination"
)

// fakeDocuments serves FindByFilename from a map and rejects everything
// that would need a database.
type fakeDocuments struct {
	byFilename map[string]*documents.Document
	findCalls  int
}

func (f *fakeDocuments) Handler() *documents.Handler { return nil }

func (f *fakeDocuments) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters documents.Filters,
) (*pagination.PageResult[documents.Document], error) {
	return nil, errors.New("not supported")
}

func (f *fakeDocuments) Find(ctx context.Context, id uuid.UUID) (*documents.Detail, error) {
	return nil, documents.ErrNotFound
}

func (f *fakeDocuments) FindByFilename(ctx context.Context, filename string) (*documents.Document, error) {
	f.findCalls++
	if doc, ok := f.byFilename[filename]; ok {
		return doc, nil
	}
	return nil, documents.ErrNotFound
}

func (f *fakeDocuments) Upsert(ctx context.Context, cmd documents.UpsertCommand) (*documents.Document, bool, error) {
	return nil, false, errors.New("not supported")
}

func (f *fakeDocuments) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*documents.Document, error) {
	return nil, documents.ErrNotFound
}

func (f *fakeDocuments) Delete(ctx context.Context, id uuid.UUID) error {
	return documents.ErrNotFound
}

func testRuntime(inbox string, docs *fakeDocuments) *Runtime {
	return &Runtime{
		Config: config.IngestConfig{
			InboxDir: inbox,
			MaxPages: 20,
		},
		Documents: docs,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExecuteSkipsUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "brief.pdf", "not really pdf bytes")

	hash, err := hashFile(path)
	if err != nil {
		t.Fatalf("hashFile() error = %v", err)
	}

	issueID := uuid.New()
	existing := &documents.Document{
		ID:          uuid.New(),
		Filename:    "brief.pdf",
		ContentHash: hash,
		PageCount:   3,
		IssueID:     &issueID,
	}
	docs := &fakeDocuments{byFilename: map[string]*documents.Document{"brief.pdf": existing}}

	// The content is not a valid PDF; a skip must happen before parsing.
	result, err := Execute(context.Background(), testRuntime(dir, docs), path, false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Skipped {
		t.Fatalf("Execute() Skipped = false, want true")
	}
	if result.DocumentID != existing.ID {
		t.Errorf("Execute() DocumentID = %v, want %v", result.DocumentID, existing.ID)
	}
	if result.PageCount != 3 {
		t.Errorf("Execute() PageCount = %d, want 3", result.PageCount)
	}
	if result.IssueID == nil || *result.IssueID != issueID {
		t.Errorf("Execute() IssueID = %v, want %v", result.IssueID, issueID)
	}
}

func TestExecuteForceBypassesSkip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "brief.pdf", "not really pdf bytes")

	hash, err := hashFile(path)
	if err != nil {
		t.Fatalf("hashFile() error = %v", err)
	}

	docs := &fakeDocuments{byFilename: map[string]*documents.Document{
		"brief.pdf": {ID: uuid.New(), Filename: "brief.pdf", ContentHash: hash},
	}}

	// Force proceeds past the unchanged check and fails on the content.
	_, err = Execute(context.Background(), testRuntime(dir, docs), path, true)
	if !errors.Is(err, ErrNotPDF) {
		t.Errorf("Execute() error = %v, want ErrNotPDF", err)
	}
}

func TestExecuteMissingFile(t *testing.T) {
	docs := &fakeDocuments{}
	_, err := Execute(context.Background(), testRuntime(t.TempDir(), docs), "/no/such/file.pdf", false)
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Execute() error = %v, want ErrFileNotFound", err)
	}
}

func TestExecuteRejectsNonPDFExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "plain text")

	docs := &fakeDocuments{}
	_, err := Execute(context.Background(), testRuntime(dir, docs), path, false)
	if !errors.Is(err, ErrNotPDF) {
		t.Errorf("Execute() error = %v, want ErrNotPDF", err)
	}
	if docs.findCalls != 0 {
		t.Errorf("FindByFilename calls = %d, want 0", docs.findCalls)
	}
}

func TestProcessInboxContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a-broken.pdf", "garbage content")
	known := writeFile(t, dir, "b-known.pdf", "unchanged content")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, ".partial.pdf", "hidden files are ignored")

	hash, err := hashFile(known)
	if err != nil {
		t.Fatalf("hashFile() error = %v", err)
	}
	docs := &fakeDocuments{byFilename: map[string]*documents.Document{
		"b-known.pdf": {ID: uuid.New(), Filename: "b-known.pdf", ContentHash: hash},
	}}

	batch, err := ProcessInbox(context.Background(), testRuntime(dir, docs), false)
	if err != nil {
		t.Fatalf("ProcessInbox() error = %v", err)
	}

	if batch.Failed != 1 || batch.Skipped != 1 || batch.Processed != 0 {
		t.Errorf("ProcessInbox() = failed %d skipped %d processed %d, want 1/1/0",
			batch.Failed, batch.Skipped, batch.Processed)
	}
	if len(batch.Outcomes) != 2 {
		t.Fatalf("ProcessInbox() Outcomes length = %d, want 2", len(batch.Outcomes))
	}
	if batch.Outcomes[0].File != "a-broken.pdf" || batch.Outcomes[0].Error == "" {
		t.Errorf("first outcome = %+v, want a-broken.pdf with an error", batch.Outcomes[0])
	}
	if batch.Outcomes[1].File != "b-known.pdf" || !batch.Outcomes[1].Result.Skipped {
		t.Errorf("second outcome = %+v, want b-known.pdf skipped", batch.Outcomes[1])
	}
}

func TestNeedsLink(t *testing.T) {
	issueID := uuid.New()

	tests := []struct {
		name    string
		issueID *uuid.UUID
		force   bool
		want    bool
	}{
		{"no issue", nil, false, true},
		{"no issue forced", nil, true, true},
		{"linked", &issueID, false, false},
		{"linked forced", &issueID, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := state.New(nil)
			s = s.Set(KeyDocument, &documents.Document{ID: uuid.New(), IssueID: tt.issueID})
			s = s.Set(KeyForce, tt.force)

			if got := needsLink(s); got != tt.want {
				t.Errorf("needsLink() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("missing document", func(t *testing.T) {
		if got := needsLink(state.New(nil)); got {
			t.Errorf("needsLink() = true, want false")
		}
	})
}

var _ documents.System = (*fakeDocuments)(nil)
