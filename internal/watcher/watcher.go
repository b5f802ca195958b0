// Package watcher keeps the inbox directory under observation and feeds
// newly dropped PDFs into the ingestion pipeline.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/capraCoder/mamadoc/internal/ingest"
)

var (
	ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")
	ErrNeverSettled  = errors.New("file size did not settle")
)

// Watcher observes the inbox directory and processes arriving PDFs
// through a single worker, so pipeline runs never overlap.
type Watcher struct {
	rt     *ingest.Runtime
	fsw    *fsnotify.Watcher
	work   chan string
	stop   chan struct{}
	logger *slog.Logger
}

// New creates a watcher over the runtime's configured inbox directory.
func New(rt *ingest.Runtime) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatcherFailed, err)
	}

	return &Watcher{
		rt:     rt,
		fsw:    fsw,
		work:   make(chan string, 64),
		stop:   make(chan struct{}),
		logger: rt.Logger.With("system", "watcher"),
	}, nil
}

// Start sweeps the inbox once for files that arrived while nothing was
// watching, then begins observing for new ones. Call Stop to clean up.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.rt.Config.InboxDir, 0o755); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}

	if err := w.fsw.Add(w.rt.Config.InboxDir); err != nil {
		return fmt.Errorf("%w: watch inbox: %w", ErrWatcherFailed, err)
	}

	go w.worker(ctx)
	go w.observe(ctx)

	if _, err := ingest.ProcessInbox(ctx, w.rt, false); err != nil {
		w.logger.Error("initial inbox sweep failed", "error", err)
	}

	w.logger.Info("watching inbox", "dir", w.rt.Config.InboxDir)
	return nil
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		return
	default:
		close(w.stop)
		_ = w.fsw.Close()
	}
}

func (w *Watcher) observe(ctx context.Context) {
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".pdf") {
				continue
			}

			select {
			case w.work <- event.Name:
			default:
				w.logger.Warn("work queue full, dropping event", "file", event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case path := <-w.work:
			w.handle(ctx, path)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	if err := w.waitSettled(ctx, path); err != nil {
		w.logger.Warn("file not ready", "file", path, "error", err)
		return
	}

	attempts := w.rt.Config.RetryAttempts + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := ingest.Execute(ctx, w.rt, path, false)
		if err == nil {
			w.logger.Info("file processed",
				"file", path,
				"document_id", result.DocumentID,
				"skipped", result.Skipped)
			return
		}

		w.logger.Warn("processing attempt failed",
			"file", path, "attempt", attempt, "error", err)

		if attempt < attempts {
			select {
			case <-time.After(w.rt.Config.RetryDelayDuration()):
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			}
		}
	}

	w.logger.Error("giving up on file", "file", path, "attempts", attempts)
}

// waitSettled polls the file size until two consecutive reads agree, so a
// PDF still being copied in is not processed half-written.
func (w *Watcher) waitSettled(ctx context.Context, path string) error {
	deadline := time.Now().Add(w.rt.Config.SettleTimeoutDuration())

	var lastSize int64 = -1
	for {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat file: %w", err)
		}

		if info.Size() > 0 && info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()

		if time.Now().After(deadline) {
			return ErrNeverSettled
		}

		select {
		case <-time.After(w.rt.Config.SettlePollDuration()):
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return ErrNeverSettled
		}
	}
}
