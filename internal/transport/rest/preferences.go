package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kindra-app/kindra-backend/internal/domain"
	"github.com/kindra-app/kindra-backend/internal/service/preference"
)

// preferenceService defines the minimal interface needed by PreferencesHandler.
type preferenceService interface {
	Get(ctx context.Context) (*domain.UserPreferences, error)
	AddValue(ctx context.Context, input preference.AddValueInput) error
	RemoveValue(ctx context.Context, input preference.RemoveValueInput) error
	ReplaceConstraints(ctx context.Context, input preference.ReplaceConstraintsInput) error
	AddConstraint(ctx context.Context, input preference.ConstraintInput) error
	RemoveConstraint(ctx context.Context, id string) error
	ActiveEditor(ctx context.Context) (*preference.Editor, bool)
}

// PreferencesHandler serves the committed preference document endpoints.
type PreferencesHandler struct {
	svc preferenceService
	log *slog.Logger
}

// NewPreferencesHandler creates a PreferencesHandler.
func NewPreferencesHandler(svc preferenceService, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{svc: svc, log: logger.With("handler", "preferences")}
}

type addValueRequest struct {
	Category   string   `json:"category"`
	Value      string   `json:"value"`
	Source     string   `json:"source,omitempty"`
	Sentiment  string   `json:"sentiment,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Evidence   *string  `json:"evidence,omitempty"`
}

type removeValueRequest struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

type constraintRequest struct {
	TargetType  string `json:"targetType,omitempty"`
	TargetValue string `json:"targetValue"`
	Scope       string `json:"scope,omitempty"`
	Intent      string `json:"intent,omitempty"`
}

type replaceConstraintsRequest struct {
	Budget string              `json:"budget,omitempty"`
	Items  []constraintRequest `json:"items"`
}

// Get handles GET /preferences.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Get(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// AddValue handles POST /preferences/values. When an editing session is
// active the value goes into the draft; otherwise it is written straight to
// the committed document.
func (h *PreferencesHandler) AddValue(w http.ResponseWriter, r *http.Request) {
	var req addValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := preference.AddValueInput{
		Category:   req.Category,
		Value:      req.Value,
		Source:     req.Source,
		Sentiment:  req.Sentiment,
		Confidence: req.Confidence,
		Evidence:   req.Evidence,
	}

	var err error
	if editor, ok := h.svc.ActiveEditor(r.Context()); ok {
		err = editor.AddValue(input)
	} else {
		err = h.svc.AddValue(r.Context(), input)
	}
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RemoveValue handles DELETE /preferences/values. Routes to the active draft
// like AddValue.
func (h *PreferencesHandler) RemoveValue(w http.ResponseWriter, r *http.Request) {
	var req removeValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if editor, ok := h.svc.ActiveEditor(r.Context()); ok {
		editor.RemoveValue(req.Category, req.Value)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	err := h.svc.RemoveValue(r.Context(), preference.RemoveValueInput{
		Category: req.Category,
		Value:    req.Value,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReplaceConstraints handles PUT /constraints.
func (h *PreferencesHandler) ReplaceConstraints(w http.ResponseWriter, r *http.Request) {
	var req replaceConstraintsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := preference.ReplaceConstraintsInput{Budget: req.Budget}
	for _, item := range req.Items {
		input.Items = append(input.Items, preference.ConstraintInput{
			TargetType:  item.TargetType,
			TargetValue: item.TargetValue,
			Scope:       item.Scope,
			Intent:      item.Intent,
		})
	}

	if err := h.svc.ReplaceConstraints(r.Context(), input); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddConstraint handles POST /constraints.
func (h *PreferencesHandler) AddConstraint(w http.ResponseWriter, r *http.Request) {
	var req constraintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.AddConstraint(r.Context(), preference.ConstraintInput{
		TargetType:  req.TargetType,
		TargetValue: req.TargetValue,
		Scope:       req.Scope,
		Intent:      req.Intent,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RemoveConstraint handles DELETE /constraints/{id}.
func (h *PreferencesHandler) RemoveConstraint(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveConstraint(r.Context(), r.PathValue("id")); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PreferencesHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
