package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Outcome is the per-file result of an inbox run.
type Outcome struct {
	File   string  `json:"file"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// BatchResult summarizes one inbox run.
type BatchResult struct {
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Outcomes  []Outcome `json:"outcomes"`
}

// ProcessInbox runs the pipeline over every PDF in the inbox directory,
// one file at a time. A failing file is reported and does not stop the
// rest of the batch.
func ProcessInbox(ctx context.Context, rt *Runtime, force bool) (*BatchResult, error) {
	entries, err := os.ReadDir(rt.Config.InboxDir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(rt.Config.InboxDir, name))
	}
	sort.Strings(files)

	batch := &BatchResult{}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		result, err := Execute(ctx, rt, file, force)
		outcome := Outcome{File: filepath.Base(file)}

		switch {
		case err != nil:
			outcome.Error = err.Error()
			batch.Failed++
			rt.Logger.Error("inbox file failed", "file", file, "error", err)
		case result.Skipped:
			outcome.Result = result
			batch.Skipped++
		default:
			outcome.Result = result
			batch.Processed++
		}

		batch.Outcomes = append(batch.Outcomes, outcome)
	}

	rt.Logger.Info("inbox run complete",
		"processed", batch.Processed,
		"skipped", batch.Skipped,
		"failed", batch.Failed)
	return batch, nil
}
