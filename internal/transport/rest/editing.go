package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/kindra-app/kindra-backend/internal/domain"
	"github.com/kindra-app/kindra-backend/internal/service/preference"
)

// editingService defines the minimal interface needed by EditingHandler.
type editingService interface {
	StartEditing(ctx context.Context) (*preference.Editor, error)
	ActiveEditor(ctx context.Context) (*preference.Editor, bool)
	StopEditing(ctx context.Context)
}

// EditingHandler serves the draft editing session endpoints.
type EditingHandler struct {
	svc editingService
	log *slog.Logger
}

// NewEditingHandler creates an EditingHandler.
func NewEditingHandler(svc editingService, logger *slog.Logger) *EditingHandler {
	return &EditingHandler{svc: svc, log: logger.With("handler", "editing")}
}

type submitCategoryRequest struct {
	Category string   `json:"category"`
	Values   []string `json:"values"`
}

type commitRequest struct {
	OnboardingCompleted *bool `json:"onboardingCompleted,omitempty"`
}

type diffResponse struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Start handles POST /preferences/edit. Starting again while a session is
// active replaces it with a fresh draft.
func (h *EditingHandler) Start(w http.ResponseWriter, r *http.Request) {
	editor, err := h.svc.StartEditing(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	draft := editor.Draft()
	writeJSON(w, http.StatusOK, &draft)
}

// Diff handles GET /preferences/diff.
func (h *EditingHandler) Diff(w http.ResponseWriter, r *http.Request) {
	editor, ok := h.svc.ActiveEditor(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "no active editing session")
		return
	}

	d := editor.Diff()
	writeJSON(w, http.StatusOK, diffResponse{Added: d.Added, Removed: d.Removed})
}

// SubmitCategory handles POST /preferences/category: a full-form submission
// of one category into the draft. Values learned from conversations that the
// form does not mention are preserved.
func (h *EditingHandler) SubmitCategory(w http.ResponseWriter, r *http.Request) {
	var req submitCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	editor, ok := h.svc.ActiveEditor(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "no active editing session")
		return
	}

	err := editor.SubmitCategory(preference.SubmitCategoryInput{
		Category: req.Category,
		Values:   req.Values,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Commit handles POST /preferences/commit. The body is optional; it may set
// the onboarding flag before the draft is persisted.
func (h *EditingHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	editor, ok := h.svc.ActiveEditor(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "no active editing session")
		return
	}

	if req.OnboardingCompleted != nil {
		editor.SetOnboardingCompleted(*req.OnboardingCompleted)
	}

	if err := editor.Commit(r.Context()); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.svc.StopEditing(r.Context())

	committed := editor.Committed()
	writeJSON(w, http.StatusOK, &committed)
}

// Discard handles POST /preferences/discard. Dropping a session that does
// not exist is a no-op.
func (h *EditingHandler) Discard(w http.ResponseWriter, r *http.Request) {
	h.svc.StopEditing(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *EditingHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
