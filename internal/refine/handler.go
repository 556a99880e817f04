package refine

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/quillworks/quill/pkg/handlers"
	"github.com/quillworks/quill/pkg/routes"
)

// Handler provides HTTP endpoints for standalone refinement operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "refine"),
	}
}

// Routes returns the route group definition for refinement endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/refine",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Refine},
			{Method: "GET", Pattern: "/providers", Handler: h.Providers},
		},
	}
}

// Refine sends an arbitrary prompt with refinement instructions to the
// configured provider and returns the structured result.
func (h *Handler) Refine(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Refine(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Providers returns the names of all registered refinement providers.
func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, ProviderNames())
}
