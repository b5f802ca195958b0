package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/capraCoder/mamadoc/internal/documents"
)

// PersistNode returns a state node that stores the merged extraction
// record as a JSON artifact and upserts the document row. Reprocessing a
// known filename keeps its status and issue link.
func PersistNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		filename, err := stateString(s, KeyFilename)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}
		contentHash, err := stateString(s, KeyContentHash)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}
		artifactKey, err := stateString(s, KeyArtifactKey)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}
		rec, err := stateRecord(s)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}
		pages, err := statePages(s)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}
		track, err := stateTracker(s)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}

		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return s, fmt.Errorf("persist: %w: marshal record: %w", ErrPersistFailed, err)
		}

		jsonKey := fmt.Sprintf("%s/extraction.json", artifactKey)
		if err := rt.Storage.Upload(ctx, jsonKey, bytes.NewReader(data), "application/json"); err != nil {
			return s, fmt.Errorf("persist: %w: upload extraction json: %w", ErrPersistFailed, err)
		}
		track.add(jsonKey)

		doc, created, err := rt.Documents.Upsert(ctx, documents.UpsertCommand{
			Filename:    filename,
			ContentHash: contentHash,
			ArtifactKey: artifactKey,
			PageCount:   len(pages),
			Record:      &rec,
		})
		if err != nil {
			return s, fmt.Errorf("persist: %w: %w", ErrPersistFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "persist node complete",
			"document_id", doc.ID,
			"filename", filename,
			"created", created,
		)

		s = s.Set(KeyDocument, doc)
		s = s.Set(KeyCreated, created)
		return s, nil
	})
}
