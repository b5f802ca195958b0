package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/capraCoder/mamadoc/pkg/storage"
)

func newTestSystem(t *testing.T) storage.System {
	t.Helper()
	return newTestSystemConfig(t, &storage.Config{})
}

func newTestSystemConfig(t *testing.T, cfg *storage.Config) storage.System {
	t.Helper()

	cfg.Backend = storage.BackendFilesystem
	cfg.Root = t.TempDir()
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	sys, err := storage.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sys
}

func TestFilesystemRoundTrip(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()
	key := "documents/rechnung-abc123/page-1.png"

	if err := sys.Upload(ctx, key, strings.NewReader("fake png bytes"), "image/png"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	exists, err := sys.Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false, want true after upload")
	}

	body, err := sys.Download(ctx, key)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Errorf("Download() = %q, want %q", data, "fake png bytes")
	}
}

func TestFilesystemUploadOverwrites(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()
	key := "documents/rechnung-abc123/extraction.json"

	if err := sys.Upload(ctx, key, strings.NewReader("first"), "application/json"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if err := sys.Upload(ctx, key, strings.NewReader("second"), "application/json"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	body, err := sys.Download(ctx, key)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	defer body.Close()

	data, _ := io.ReadAll(body)
	if string(data) != "second" {
		t.Errorf("Download() = %q, want the overwritten content", data)
	}
}

func TestFilesystemDelete(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()
	key := "documents/x/page-1.png"

	if err := sys.Upload(ctx, key, strings.NewReader("data"), "image/png"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if err := sys.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	exists, err := sys.Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true, want false after delete")
	}

	if err := sys.Delete(ctx, key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestFilesystemMissingBlob(t *testing.T) {
	sys := newTestSystem(t)

	_, err := sys.Download(context.Background(), "documents/missing.png")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Download() error = %v, want ErrNotFound", err)
	}
}

func TestFilesystemKeyValidation(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		want error
	}{
		{"empty key", "", storage.ErrEmptyKey},
		{"traversal", "../etc/passwd", storage.ErrInvalidKey},
		{"embedded traversal", "documents/../../secret", storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := sys.Upload(ctx, tt.key, strings.NewReader("x"), "text/plain"); !errors.Is(err, tt.want) {
				t.Errorf("Upload(%q) error = %v, want %v", tt.key, err, tt.want)
			}
			if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("Download(%q) error = %v, want %v", tt.key, err, tt.want)
			}
		})
	}
}

func TestFilesystemList(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	uploads := []string{
		"documents/mahnung-1a2b/page-1.png",
		"documents/mahnung-1a2b/page-2.png",
		"documents/mahnung-1a2b/extraction.json",
		"documents/other-9f8e/page-1.png",
	}
	for _, key := range uploads {
		if err := sys.Upload(ctx, key, strings.NewReader("x"), "application/octet-stream"); err != nil {
			t.Fatalf("Upload(%q) error = %v", key, err)
		}
	}

	keys, err := sys.List(ctx, "documents/mahnung-1a2b")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("List() returned %d keys, want 3: %v", len(keys), keys)
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, "documents/mahnung-1a2b/") {
			t.Errorf("List() key %q outside the prefix", key)
		}
	}
}

func TestFilesystemListMissingPrefix(t *testing.T) {
	sys := newTestSystem(t)

	keys, err := sys.List(context.Background(), "documents/nothing-here")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() = %v, want no keys", keys)
	}
}

func TestFilesystemListHonorsMaxListSize(t *testing.T) {
	sys := newTestSystemConfig(t, &storage.Config{MaxListSize: 2})
	ctx := context.Background()

	for _, key := range []string{"d/k/a.png", "d/k/b.png", "d/k/c.png"} {
		if err := sys.Upload(ctx, key, strings.NewReader("x"), "image/png"); err != nil {
			t.Fatalf("Upload(%q) error = %v", key, err)
		}
	}

	keys, err := sys.List(ctx, "d/k")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("List() returned %d keys, want the configured cap of 2", len(keys))
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"empty key", storage.ErrEmptyKey, http.StatusBadRequest},
		{"invalid key", storage.ErrInvalidKey, http.StatusBadRequest},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
