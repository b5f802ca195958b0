package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/capraCoder/mamadoc/pkg/handlers"
	"github.com/capraCoder/mamadoc/pkg/routes"
)

var (
	errUploadMissingFile = errors.New("multipart field 'file' required")
	errUploadNotPDF      = errors.New("only .pdf uploads are accepted")
	errUploadTooLarge    = errors.New("upload exceeds the configured size limit")
)

// uploadHandler accepts PDF uploads over HTTP and drops them into the
// ingest inbox, where the watcher picks them up. The upload itself is
// acknowledged with 202; processing happens asynchronously.
type uploadHandler struct {
	inboxDir string
	maxBytes int64
	logger   *slog.Logger
}

func newUploadHandler(inboxDir string, maxBytes int64, logger *slog.Logger) *uploadHandler {
	return &uploadHandler{
		inboxDir: inboxDir,
		maxBytes: maxBytes,
		logger:   logger.With("handler", "uploads"),
	}
}

func (h *uploadHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/upload", Handler: h.upload},
		},
	}
}

type uploadResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

func (h *uploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, errUploadTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errUploadMissingFile)
		return
	}
	defer file.Close()

	filename := sanitizeUploadName(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errUploadNotPDF)
		return
	}

	size, err := h.save(filename, file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, errUploadTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	h.logger.Info("upload accepted", "filename", filename, "size", size)
	handlers.RespondJSON(w, http.StatusAccepted, uploadResponse{Filename: filename, Size: size})
}

// save writes through a temp file and renames, so the watcher never sees
// a half-written PDF even if its settle checks race the upload.
func (h *uploadHandler) save(filename string, src io.Reader) (int64, error) {
	if err := os.MkdirAll(h.inboxDir, 0o755); err != nil {
		return 0, fmt.Errorf("create inbox dir: %w", err)
	}

	tmp, err := os.CreateTemp(h.inboxDir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, src)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	dest := filepath.Join(h.inboxDir, filename)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, fmt.Errorf("move upload into inbox: %w", err)
	}
	return size, nil
}

// sanitizeUploadName strips any client-supplied directory components and
// characters that are unsafe in filenames.
func sanitizeUploadName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
