package review

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kindra-app/kindra-backend/internal/domain"
	"github.com/kindra-app/kindra-backend/pkg/ctxutil"
)

// ListPending returns the learned candidates still awaiting review, with
// anything already present in the committed preference document filtered
// out. Order is stable: extraction time, then scope, then key.
func (s *Service) ListPending(ctx context.Context) ([]domain.LearnedPreference, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	meta, err := s.meta.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation metadata: %w", err)
	}

	doc, err := s.prefs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	var out []domain.LearnedPreference
	for _, item := range meta.LearnedItems() {
		if !item.Pending() {
			continue
		}
		if doc.HasNormalizedValue(domain.NormalizeValue(item.Value)) {
			continue
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExtractedAt.Equal(out[j].ExtractedAt) {
			return out[i].ExtractedAt.Before(out[j].ExtractedAt)
		}
		if out[i].Scope != out[j].Scope {
			return out[i].Scope < out[j].Scope
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}
