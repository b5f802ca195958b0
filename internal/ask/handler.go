package ask

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/capraCoder/mamadoc/pkg/handlers"
	"github.com/capraCoder/mamadoc/pkg/routes"
)

// Handler provides the question answering endpoint.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// QuestionRequest carries one free-text question.
type QuestionRequest struct {
	Question string `json:"question"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "ask"),
	}
}

// Routes returns the route group definition for the ask endpoint.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/ask",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Ask},
		},
	}
}

// Ask answers a free-text question about the stored documents.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	answer, err := h.sys.Ask(r.Context(), req.Question)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, answer)
}
