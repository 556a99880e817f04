package specs

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/quillworks/quill/internal/refine"
	"github.com/quillworks/quill/pkg/handlers"
	"github.com/quillworks/quill/pkg/metrics"
	"github.com/quillworks/quill/pkg/pagination"
	"github.com/quillworks/quill/pkg/routes"
	"github.com/quillworks/quill/prompt"
)

// Handler provides HTTP endpoints for spec operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// DraftRequest carries an inline state overlay for stateless compile and
// evaluate endpoints. The partial is merged over normalized defaults.
type DraftRequest struct {
	State prompt.Partial `json:"state"`
}

// CommandsRequest carries an ordered batch of state commands.
type CommandsRequest struct {
	Commands []json.RawMessage `json:"commands"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "specs"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for spec endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/specs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/fields", Handler: h.Fields},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/compile", Handler: h.CompileDraft},
			{Method: "POST", Pattern: "/evaluate", Handler: h.EvaluateDraft},
			{Method: "GET", Pattern: "/{id}/compile", Handler: h.Compile},
			{Method: "GET", Pattern: "/{id}/evaluate", Handler: h.Evaluate},
			{Method: "POST", Pattern: "/{id}/commands", Handler: h.Commands},
			{Method: "POST", Pattern: "/{id}/export", Handler: h.Export},
			{Method: "POST", Pattern: "/{id}/refine", Handler: h.Refine},
		},
	}
}

// List returns a paginated list of specs with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Fields returns the ordered field keys a prompt state carries.
func (h *Handler) Fields(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, prompt.FieldKeys())
}

// Find returns a single spec by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	spec, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, spec)
}

// Create processes a JSON body to create a new spec.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	spec, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, spec)
}

// Update processes a JSON body to update an existing spec.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	spec, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, spec)
}

// Delete removes a spec by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search accepts a JSON body with pagination and filter criteria and returns
// matching specs.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// CompileDraft compiles an inline state overlay without persisting anything.
func (h *Handler) CompileDraft(w http.ResponseWriter, r *http.Request) {
	state, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	metrics.RecordCompilation("stateless")
	handlers.RespondJSON(w, http.StatusOK, CompileResult{Markdown: prompt.Compile(state)})
}

// EvaluateDraft evaluates an inline state overlay without persisting anything.
func (h *Handler) EvaluateDraft(w http.ResponseWriter, r *http.Request) {
	state, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	report := prompt.Evaluate(state)
	metrics.RecordEvaluation("stateless", report.TotalScore)
	handlers.RespondJSON(w, http.StatusOK, EvaluateResult{Report: report})
}

// Compile renders a stored spec to its prompt document.
func (h *Handler) Compile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	result, err := h.sys.Compile(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	metrics.RecordCompilation("stored")
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Evaluate scores a stored spec against the rubric.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	result, err := h.sys.Evaluate(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	metrics.RecordEvaluation("stored", result.Report.TotalScore)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Commands applies an ordered batch of state commands to a stored spec.
func (h *Handler) Commands(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var req CommandsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	cmds := make([]prompt.Command, 0, len(req.Commands))
	for _, raw := range req.Commands {
		cmd, err := prompt.UnmarshalCommand(raw)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		cmds = append(cmds, cmd)
	}

	spec, err := h.sys.ApplyCommands(r.Context(), id, cmds)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, spec)
}

// Export writes the compiled prompt and rubric report to blob storage.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	result, err := h.sys.Export(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Refine compiles a stored spec and sends it through the refinement proxy.
func (h *Handler) Refine(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var req refine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Refine(r.Context(), id, req)
	if err != nil {
		status := MapHTTPStatus(err)
		if refineStatus := refine.MapHTTPStatus(err); refineStatus != http.StatusInternalServerError {
			status = refineStatus
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) decodeDraft(w http.ResponseWriter, r *http.Request) (prompt.State, bool) {
	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return prompt.State{}, false
	}

	normalizer := prompt.NewNormalizer(nil)
	return normalizer.Merge(normalizer.Default(), req.State), true
}
