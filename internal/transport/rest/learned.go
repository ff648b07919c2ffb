package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kindra-app/kindra-backend/internal/domain"
	"github.com/kindra-app/kindra-backend/internal/service/review"
)

// reviewService defines the minimal interface needed by LearnedHandler.
type reviewService interface {
	ListPending(ctx context.Context) ([]domain.LearnedPreference, error)
	Approve(ctx context.Context, input review.ResolveInput) (*review.Result, error)
	Dismiss(ctx context.Context, input review.ResolveInput) (*review.Result, error)
}

// LearnedHandler serves the conversation-learned review queue endpoints.
type LearnedHandler struct {
	svc reviewService
	log *slog.Logger
}

// NewLearnedHandler creates a LearnedHandler.
func NewLearnedHandler(svc reviewService, logger *slog.Logger) *LearnedHandler {
	return &LearnedHandler{svc: svc, log: logger.With("handler", "learned")}
}

type resolveRequest struct {
	Scope      string   `json:"scope"`
	Key        string   `json:"key"`
	Value      string   `json:"value,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Evidence   *string  `json:"evidence,omitempty"`
}

type listLearnedResponse struct {
	Items []domain.LearnedPreference `json:"items"`
}

type resolveResponse struct {
	Item             domain.LearnedPreference `json:"item"`
	AlreadyProcessed bool                     `json:"alreadyProcessed"`
	LowConfidence    bool                     `json:"lowConfidence"`
}

// List handles GET /learned.
func (h *LearnedHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListPending(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.LearnedPreference{}
	}

	writeJSON(w, http.StatusOK, listLearnedResponse{Items: items})
}

// Approve handles POST /learned/approve.
func (h *LearnedHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.svc.Approve)
}

// Dismiss handles POST /learned/dismiss.
func (h *LearnedHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.svc.Dismiss)
}

func (h *LearnedHandler) resolve(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, review.ResolveInput) (*review.Result, error),
) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := op(r.Context(), review.ResolveInput{
		Scope:      req.Scope,
		Key:        req.Key,
		Value:      req.Value,
		Confidence: req.Confidence,
		Evidence:   req.Evidence,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{
		Item:             result.Item,
		AlreadyProcessed: result.AlreadyProcessed,
		LowConfidence:    result.LowConfidence,
	})
}

func (h *LearnedHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
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
