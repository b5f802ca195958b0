package api

import (
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/capraCoder/mamadoc/pkg/handlers"
	"github.com/capraCoder/mamadoc/pkg/routes"
	"github.com/capraCoder/mamadoc/pkg/storage"
)

// artifactHandler streams stored document artifacts (page images and
// extraction JSON) to the dashboard.
type artifactHandler struct {
	store  storage.System
	logger *slog.Logger
}

func newArtifactHandler(store storage.System, logger *slog.Logger) *artifactHandler {
	return &artifactHandler{
		store:  store,
		logger: logger.With("handler", "artifacts"),
	}
}

func (h *artifactHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/artifacts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: h.download},
		},
	}
}

func (h *artifactHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentTypeForKey(key))
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("artifact stream interrupted", "key", key, "error", err)
	}
}

func contentTypeForKey(key string) string {
	switch path.Ext(key) {
	case ".png":
		return "image/png"
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
