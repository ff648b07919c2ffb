package review

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kindra-app/kindra-backend/internal/config"
	"github.com/kindra-app/kindra-backend/internal/domain"
)

// metadataRepo provides the raw conversation metadata document.
type metadataRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.ConversationMetadata, error)
	Save(ctx context.Context, userID uuid.UUID, meta *domain.ConversationMetadata) error
}

// preferenceStore is the slice of the preference service the review queue
// writes approved items through.
type preferenceStore interface {
	Get(ctx context.Context) (*domain.UserPreferences, error)
	ApplyValue(ctx context.Context, key string, v domain.PreferenceValue) error
	ApplyConstraint(ctx context.Context, c domain.UnifiedConstraint) error
}

// txManager executes a function within a database transaction.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service runs the review queue over externally-learned candidates:
// listing pending items and resolving each one into an approval or a
// dismissal exactly once.
type Service struct {
	meta  metadataRepo
	prefs preferenceStore
	tx    txManager
	cfg   config.EngineConfig
	log   *slog.Logger
}

// NewService creates a new Review service.
func NewService(
	log *slog.Logger,
	meta metadataRepo,
	prefs preferenceStore,
	tx txManager,
	cfg config.EngineConfig,
) *Service {
	return &Service{
		meta:  meta,
		prefs: prefs,
		tx:    tx,
		cfg:   cfg,
		log:   log.With("service", "review"),
	}
}
