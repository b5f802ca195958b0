package ingest

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/capraCoder/mamadoc/internal/extraction"
)

// ExtractNode returns a state node that runs page-by-page vision
// extraction with bounded errgroup concurrency, merges the per-page
// records into one, and validates the result. A record missing its
// required fields fails the pipeline; lesser problems become warnings.
func ExtractNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pages, err := statePages(s)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		records, err := extractPages(ctx, rt, pages)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		merged := extraction.Merge(records)

		warnings, err := extraction.Validate(&merged)
		if err != nil {
			return s, fmt.Errorf("extract: %w: %w", ErrExtractFailed, err)
		}

		for _, w := range warnings {
			rt.Logger.WarnContext(ctx, "extraction warning", "warning", w)
		}

		rt.Logger.InfoContext(
			ctx, "extract node complete",
			"page_count", len(pages),
			"sender", merged.Sender,
			"doc_type", merged.DocType,
			"letter_type", merged.LetterType,
		)

		s = s.Set(KeyRecord, merged)
		s = s.Set(KeyWarnings, warnings)
		return s, nil
	})
}

func extractPages(ctx context.Context, rt *Runtime, pages []Page) ([]extraction.Record, error) {
	records := make([]extraction.Record, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(pages)))

	for i := range pages {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := os.ReadFile(pages[i].ImagePath)
			if err != nil {
				return fmt.Errorf("page %d: read image: %w", pages[i].PageNumber, err)
			}

			rec, err := rt.Gateway.ExtractPage(gctx, data)
			if err != nil {
				return fmt.Errorf("page %d: %w", pages[i].PageNumber, err)
			}

			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}

	return records, nil
}
