package preference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/kindra-app/kindra-backend/internal/config"
	"github.com/kindra-app/kindra-backend/internal/domain"
	"github.com/kindra-app/kindra-backend/pkg/ctxutil"
)

type prefsRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error)
	Save(ctx context.Context, userID uuid.UUID, doc *domain.UserPreferences) error
}

// Service owns the per-user preference document: repo-backed operations on
// the committed copy, plus one editing session (draft buffer) per user.
type Service struct {
	prefs prefsRepo
	cfg   config.EngineConfig
	log   *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Editor
}

// NewService creates a new Preference service.
func NewService(
	log *slog.Logger,
	prefs prefsRepo,
	cfg config.EngineConfig,
) *Service {
	return &Service{
		prefs:    prefs,
		cfg:      cfg,
		log:      log.With("service", "preference"),
		sessions: make(map[uuid.UUID]*Editor),
	}
}

// Get returns the committed preference document for the authenticated user.
// A user without a stored document gets an empty canonical document.
func (s *Service) Get(ctx context.Context) (*domain.UserPreferences, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	doc, err := s.prefs.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.UserPreferences{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return doc, nil
}

// StartEditing opens an editing session over the committed document.
// A user has at most one active session; starting a new one replaces it,
// discarding any uncommitted draft.
func (s *Service) StartEditing(ctx context.Context) (*Editor, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	doc, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	ed := newEditor(s, userID, *doc)

	s.mu.Lock()
	s.sessions[userID] = ed
	s.mu.Unlock()

	s.log.InfoContext(ctx, "editing session started",
		slog.String("user_id", userID.String()))

	return ed, nil
}

// ActiveEditor returns the user's editing session, if one is open.
func (s *Service) ActiveEditor(ctx context.Context) (*Editor, bool) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.sessions[userID]
	return ed, ok
}

// StopEditing tears down the user's editing session, dropping any
// uncommitted draft. Called on logout.
func (s *Service) StopEditing(ctx context.Context) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// save writes the canonical document. The UI serializes edits, so a direct
// write never races an in-flight editor commit.
func (s *Service) save(ctx context.Context, userID uuid.UUID, doc *domain.UserPreferences) error {
	if err := s.prefs.Save(ctx, userID, doc); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
