package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kindra-app/kindra-backend/internal/domain"
	"github.com/kindra-app/kindra-backend/pkg/ctxutil"
)

// Dismiss resolves a pending candidate by discarding it. The preference
// document is never touched. An item already dismissed or approved is left
// untouched and reported as AlreadyProcessed.
func (s *Service) Dismiss(ctx context.Context, input ResolveInput) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	meta, err := s.meta.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation metadata: %w", err)
	}

	item, ok := meta.FindLearned(input.Scope, input.Key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !item.Pending() {
		return &Result{Item: item, AlreadyProcessed: true}, nil
	}

	now := time.Now().UTC()
	meta.StampDismissal(input.Scope, input.Key, now)
	if err := s.meta.Save(ctx, userID, meta); err != nil {
		return nil, fmt.Errorf("save conversation metadata: %w", err)
	}

	item.Dismissed = true
	item.DismissedAt = &now

	s.log.InfoContext(ctx, "learned item dismissed",
		slog.String("user_id", userID.String()),
		slog.String("scope", item.Scope),
		slog.String("key", item.Key),
	)
	return &Result{Item: item}, nil
}
