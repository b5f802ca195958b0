package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// InitNode returns a state node that renders every page of the source PDF
// to PNG via ImageMagick and uploads the images as document artifacts.
func InitNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pdfPath, err := stateString(s, KeyPDFPath)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}
		tempDir, err := stateString(s, KeyTempDir)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}
		artifactKey, err := stateString(s, KeyArtifactKey)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}
		track, err := stateTracker(s)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}

		pages, err := renderPages(ctx, rt, pdfPath, tempDir)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}

		if err := uploadPages(ctx, rt, pages, artifactKey, track); err != nil {
			return s, fmt.Errorf("init: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "init node complete",
			"pdf", pdfPath,
			"page_count", len(pages),
		)

		s = s.Set(KeyPages, pages)
		return s, nil
	})
}

func renderPages(ctx context.Context, rt *Runtime, pdfPath, tempDir string) ([]Page, error) {
	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %w", ErrRenderFailed, err)
	}
	defer pdfDoc.Close()

	allPages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return nil, fmt.Errorf("%w: extract pages: %w", ErrRenderFailed, err)
	}

	pageCount := len(allPages)

	renderer, err := image.NewImageMagickRenderer(config.ImageConfig{
		Format: "png",
		DPI:    rt.Config.DPI,
		Options: map[string]any{
			"background": "white",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create renderer: %w", ErrRenderFailed, err)
	}

	pages := make([]Page, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(pageCount))

	for i, page := range allPages {
		pageNum := i + 1
		imgPath := filepath.Join(tempDir, fmt.Sprintf("page-%d.png", pageNum))
		pages[i] = Page{
			PageNumber: pageNum,
			ImagePath:  imgPath,
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("render page %d: %w", pageNum, err)
			}

			if err := os.WriteFile(imgPath, data, 0600); err != nil {
				return fmt.Errorf("write page %d image: %w", pageNum, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	return pages, nil
}

func uploadPages(ctx context.Context, rt *Runtime, pages []Page, artifactKey string, track *tracker) error {
	for i := range pages {
		key := fmt.Sprintf("%s/page-%d.png", artifactKey, pages[i].PageNumber)

		data, err := os.ReadFile(pages[i].ImagePath)
		if err != nil {
			return fmt.Errorf("%w: read page image: %w", ErrRenderFailed, err)
		}

		if err := rt.Storage.Upload(ctx, key, bytes.NewReader(data), "image/png"); err != nil {
			return fmt.Errorf("%w: upload page %d: %w", ErrRenderFailed, pages[i].PageNumber, err)
		}

		track.add(key)
		pages[i].Key = key
	}
	return nil
}

func workerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
