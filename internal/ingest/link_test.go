package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/capraCoder/mamadoc/internal/documents"
	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/internal/issues"
	"github.com/capraCoder/mamadoc/pkg/pagination"
)

type attachCall struct {
	documentID uuid.UUID
	issueID    uuid.UUID
}

// fakeIssues records link activity and serves a fixed candidate pool.
type fakeIssues struct {
	candidates []issues.Candidate
	createID   uuid.UUID

	attached   []attachCall
	created    []uuid.UUID
	recomputed []uuid.UUID
}

func (f *fakeIssues) Handler() *issues.Handler { return nil }

func (f *fakeIssues) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters issues.Filters,
) (*pagination.PageResult[issues.Issue], error) {
	return nil, errors.New("not supported")
}

func (f *fakeIssues) Find(ctx context.Context, id uuid.UUID) (*issues.Issue, error) {
	return nil, issues.ErrNotFound
}

func (f *fakeIssues) Timeline(ctx context.Context, id uuid.UUID) ([]issues.TimelineEntry, error) {
	return nil, issues.ErrNotFound
}

func (f *fakeIssues) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*issues.Issue, error) {
	return nil, issues.ErrNotFound
}

func (f *fakeIssues) Candidates(ctx context.Context) ([]issues.Candidate, error) {
	return f.candidates, nil
}

func (f *fakeIssues) Attach(ctx context.Context, documentID, issueID uuid.UUID, rec *extraction.Record) error {
	f.attached = append(f.attached, attachCall{documentID: documentID, issueID: issueID})
	return nil
}

func (f *fakeIssues) CreateForDocument(ctx context.Context, documentID uuid.UUID, rec *extraction.Record) (*issues.Issue, error) {
	f.created = append(f.created, documentID)
	return &issues.Issue{ID: f.createID}, nil
}

func (f *fakeIssues) RecomputeDerived(ctx context.Context, issueID uuid.UUID) error {
	f.recomputed = append(f.recomputed, issueID)
	return nil
}

var _ issues.System = (*fakeIssues)(nil)

func linkState(doc *documents.Document, rec extraction.Record) state.State {
	s := state.New(nil)
	s = s.Set(KeyDocument, doc)
	s = s.Set(KeyRecord, rec)
	return s
}

func linkRuntime(fi *fakeIssues) *Runtime {
	return &Runtime{
		Issues: fi,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestLinkNodeMovesDocumentBetweenIssues(t *testing.T) {
	oldIssue := uuid.New()
	newIssue := uuid.New()
	docID := uuid.New()

	fi := &fakeIssues{
		candidates: []issues.Candidate{{
			ID:         newIssue,
			SenderNorm: "stadtwerke",
			RefNumbers: []string{"VK1"},
		}},
	}

	doc := &documents.Document{ID: docID, IssueID: &oldIssue}
	rec := extraction.Record{
		Sender:           "Stadtwerke",
		ReferenceNumbers: []string{"VK-1"},
	}

	s, err := LinkNode(linkRuntime(fi)).Execute(context.Background(), linkState(doc, rec))
	if err != nil {
		t.Fatalf("LinkNode Execute() error = %v", err)
	}

	if len(fi.attached) != 1 || fi.attached[0].issueID != newIssue {
		t.Fatalf("Attach calls = %+v, want one attach to the matched issue", fi.attached)
	}
	if len(fi.recomputed) != 1 || fi.recomputed[0] != oldIssue {
		t.Errorf("RecomputeDerived calls = %v, want one for the former issue %v", fi.recomputed, oldIssue)
	}

	val, ok := s.Get(KeyIssueID)
	if !ok || val.(uuid.UUID) != newIssue {
		t.Errorf("state issue id = %v, want %v", val, newIssue)
	}
}

func TestLinkNodeKeepsIssueWithoutRecompute(t *testing.T) {
	issueID := uuid.New()

	fi := &fakeIssues{
		candidates: []issues.Candidate{{
			ID:         issueID,
			SenderNorm: "stadtwerke",
			RefNumbers: []string{"VK1"},
		}},
	}

	doc := &documents.Document{ID: uuid.New(), IssueID: &issueID}
	rec := extraction.Record{
		Sender:           "Stadtwerke",
		ReferenceNumbers: []string{"VK-1"},
	}

	if _, err := LinkNode(linkRuntime(fi)).Execute(context.Background(), linkState(doc, rec)); err != nil {
		t.Fatalf("LinkNode Execute() error = %v", err)
	}

	if len(fi.attached) != 1 || fi.attached[0].issueID != issueID {
		t.Fatalf("Attach calls = %+v, want one attach to the same issue", fi.attached)
	}
	if len(fi.recomputed) != 0 {
		t.Errorf("RecomputeDerived calls = %v, want none when the issue is unchanged", fi.recomputed)
	}
}

func TestLinkNodeNewIssueReconcilesFormer(t *testing.T) {
	oldIssue := uuid.New()
	createID := uuid.New()

	fi := &fakeIssues{createID: createID}

	doc := &documents.Document{ID: uuid.New(), IssueID: &oldIssue}
	rec := extraction.Record{Sender: "Finanzamt"}

	s, err := LinkNode(linkRuntime(fi)).Execute(context.Background(), linkState(doc, rec))
	if err != nil {
		t.Fatalf("LinkNode Execute() error = %v", err)
	}

	if len(fi.created) != 1 {
		t.Fatalf("CreateForDocument calls = %v, want one", fi.created)
	}
	if len(fi.recomputed) != 1 || fi.recomputed[0] != oldIssue {
		t.Errorf("RecomputeDerived calls = %v, want one for the former issue %v", fi.recomputed, oldIssue)
	}

	val, ok := s.Get(KeyIssueCreated)
	if !ok || val.(bool) != true {
		t.Errorf("state issue created = %v, want true", val)
	}
}
