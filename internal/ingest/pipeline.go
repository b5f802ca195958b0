package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/capraCoder/mamadoc/internal/documents"
	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/pkg/storage"
)

// Execute runs the ingestion pipeline for a single PDF. An unchanged file
// that was already processed is skipped unless force is set. On failure
// the artifacts uploaded by this run are removed again; rows written by
// completed nodes stay, keyed by filename, and a rerun converges them.
func Execute(ctx context.Context, rt *Runtime, pdfPath string, force bool) (*Result, error) {
	info, err := os.Stat(pdfPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, pdfPath)
		}
		return nil, fmt.Errorf("stat pdf: %w", err)
	}
	if info.IsDir() || !strings.EqualFold(filepath.Ext(pdfPath), ".pdf") {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, pdfPath)
	}

	contentHash, err := hashFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("hash pdf: %w", err)
	}

	filename := filepath.Base(pdfPath)

	existing, err := rt.Documents.FindByFilename(ctx, filename)
	if err != nil && !errors.Is(err, documents.ErrNotFound) {
		return nil, fmt.Errorf("lookup document: %w", err)
	}
	if existing != nil && existing.ContentHash == contentHash && !force {
		rt.Logger.InfoContext(ctx, "pipeline skipped", "filename", filename, "reason", "unchanged")
		return &Result{
			Filename:    filename,
			Skipped:     true,
			DocumentID:  existing.ID,
			PageCount:   existing.PageCount,
			IssueID:     existing.IssueID,
			CompletedAt: time.Now().UTC(),
		}, nil
	}

	pageCount, err := pdfPageCount(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotPDF, pdfPath, err)
	}
	if pageCount > rt.Config.MaxPages {
		return nil, fmt.Errorf("%w: %d pages, maximum is %d",
			ErrTooManyPages, pageCount, rt.Config.MaxPages)
	}

	tempDir, err := os.MkdirTemp("", "mamadoc-ingest-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	track := &tracker{}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyPDFPath, pdfPath)
	initialState = initialState.Set(KeyTempDir, tempDir)
	initialState = initialState.Set(KeyFilename, filename)
	initialState = initialState.Set(KeyContentHash, contentHash)
	initialState = initialState.Set(KeyArtifactKey, buildArtifactKey(filename, contentHash))
	initialState = initialState.Set(KeyForce, force)
	initialState = initialState.Set(KeyTracker, track)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		cleanupArtifacts(ctx, rt, track)
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("mamadoc-ingest")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("init", InitNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("extract", ExtractNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("persist", PersistNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("link", LinkNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	// init → extract → persist (unconditional)
	if err := graph.AddEdge("init", "extract", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("extract", "persist", nil); err != nil {
		return nil, err
	}

	// persist → link (document without an issue, or a forced re-run)
	if err := graph.AddEdge("persist", "link", needsLink); err != nil {
		return nil, err
	}

	// persist → finalize (unforced reprocess keeps its issue)
	if err := graph.AddEdge("persist", "finalize", state.Not(needsLink)); err != nil {
		return nil, err
	}

	// link → finalize (unconditional)
	if err := graph.AddEdge("link", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("init"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

// FinalizeNode returns the exit node. It only reports completion; the
// result is assembled from the final state after execution.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		doc, err := stateDocument(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "pipeline complete",
			"document_id", doc.ID,
			"filename", doc.Filename,
		)
		return s, nil
	})
}

// needsLink routes a document into the link node when it has no issue
// yet, or when a forced re-run must re-evaluate the match against the
// replaced extraction.
func needsLink(s state.State) bool {
	doc, err := stateDocument(s)
	if err != nil {
		return false
	}
	if doc.IssueID == nil {
		return true
	}
	return stateForce(s)
}

func stateForce(s state.State) bool {
	val, ok := s.Get(KeyForce)
	if !ok {
		return false
	}
	force, ok := val.(bool)
	return ok && force
}

func extractResult(s state.State) (*Result, error) {
	doc, err := stateDocument(s)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Filename:    doc.Filename,
		DocumentID:  doc.ID,
		PageCount:   doc.PageCount,
		IssueID:     doc.IssueID,
		CompletedAt: time.Now().UTC(),
	}

	if val, ok := s.Get(KeyCreated); ok {
		if created, ok := val.(bool); ok {
			result.Created = created
		}
	}

	if val, ok := s.Get(KeyIssueID); ok {
		if id, ok := val.(uuid.UUID); ok {
			result.IssueID = &id
		}
	}

	if val, ok := s.Get(KeyIssueCreated); ok {
		if created, ok := val.(bool); ok {
			result.IssueCreated = created
		}
	}

	if val, ok := s.Get(KeyWarnings); ok {
		if warnings, ok := val.([]string); ok {
			result.Warnings = warnings
		}
	}

	return result, nil
}

func cleanupArtifacts(ctx context.Context, rt *Runtime, track *tracker) {
	for _, key := range track.uploaded() {
		if err := rt.Storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			rt.Logger.Warn("artifact cleanup failed", "key", key, "error", err)
		}
	}
}

// pdfPageCount reads the page count from the PDF structure without
// rendering, so the page cap rejects oversized files before any
// rendering or model work happens. An unchanged file skips before the
// PDF is even parsed.
func pdfPageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return pdfapi.PageCount(f, nil)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// buildArtifactKey derives a stable storage prefix from the filename stem
// and content hash, so reprocessing the same content overwrites in place.
func buildArtifactKey(filename, contentHash string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	return fmt.Sprintf("documents/%s-%s", strings.ToLower(b.String()), contentHash[:8])
}

func stateString(s state.State, key string) (string, error) {
	val, ok := s.Get(key)
	if !ok {
		return "", fmt.Errorf("missing %s in state", key)
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s is not string", key)
	}
	return str, nil
}

func statePages(s state.State) ([]Page, error) {
	val, ok := s.Get(KeyPages)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyPages)
	}
	pages, ok := val.([]Page)
	if !ok {
		return nil, fmt.Errorf("%s is not []Page", KeyPages)
	}
	return pages, nil
}

func stateRecord(s state.State) (extraction.Record, error) {
	val, ok := s.Get(KeyRecord)
	if !ok {
		return extraction.Record{}, fmt.Errorf("missing %s in state", KeyRecord)
	}
	rec, ok := val.(extraction.Record)
	if !ok {
		return extraction.Record{}, fmt.Errorf("%s is not extraction.Record", KeyRecord)
	}
	return rec, nil
}

func stateDocument(s state.State) (*documents.Document, error) {
	val, ok := s.Get(KeyDocument)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyDocument)
	}
	doc, ok := val.(*documents.Document)
	if !ok {
		return nil, fmt.Errorf("%s is not *documents.Document", KeyDocument)
	}
	return doc, nil
}

func stateTracker(s state.State) (*tracker, error) {
	val, ok := s.Get(KeyTracker)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyTracker)
	}
	track, ok := val.(*tracker)
	if !ok {
		return nil, fmt.Errorf("%s is not *tracker", KeyTracker)
	}
	return track, nil
}
