package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kindra-app/kindra-backend/internal/domain"
	"github.com/kindra-app/kindra-backend/pkg/ctxutil"
)

// Approve resolves a pending candidate into the preference document.
// Constraint-shaped items land in the unified constraint block, everything
// else in the routed preference category. An item already approved or
// dismissed is left untouched and reported as AlreadyProcessed; double
// submissions and stale re-renders must never surface as errors.
func (s *Service) Approve(ctx context.Context, input ResolveInput) (*Result, error) {
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

	// The client may echo back what the review UI displayed; an echo wins
	// over the stored candidate for the applied value only, the metadata
	// record keeps what was extracted.
	if v := strings.TrimSpace(input.Value); v != "" {
		item.Value = v
	}
	if input.Confidence != nil {
		item.Confidence = *input.Confidence
	}
	if input.Evidence != nil {
		item.Evidence = input.Evidence
	}

	// Applying the item and stamping it approved touch two tables; run both
	// in one transaction so a failed apply leaves the item pending.
	now := time.Now().UTC()
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var applyErr error
		if item.IsConstraint() {
			applyErr = s.applyConstraintItem(ctx, item)
		} else {
			applyErr = s.applyPreferenceItem(ctx, item)
		}
		if applyErr != nil {
			return applyErr
		}

		meta.StampApproval(input.Scope, input.Key, now)
		if err := s.meta.Save(ctx, userID, meta); err != nil {
			return fmt.Errorf("save conversation metadata: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	item.ApprovedAt = &now
	result := &Result{
		Item:          item,
		LowConfidence: item.Confidence < s.cfg.LowConfidenceThreshold,
	}

	s.log.InfoContext(ctx, "learned item approved",
		slog.String("user_id", userID.String()),
		slog.String("scope", item.Scope),
		slog.String("key", item.Key),
		slog.Bool("constraint", item.IsConstraint()),
		slog.Bool("low_confidence", result.LowConfidence),
	)
	return result, nil
}

func (s *Service) applyPreferenceItem(ctx context.Context, item domain.LearnedPreference) error {
	key := domain.NormalizeValue(item.Scope)
	if field, ok := domain.RouteScope(item.Scope); ok {
		key = string(field)
	}

	conf := item.Confidence
	v, err := domain.NewPreferenceValue(item.Value, domain.SourceChatbot, domain.SentimentLike, &conf, item.Evidence)
	if err != nil {
		return err
	}
	return s.prefs.ApplyValue(ctx, key, v)
}

func (s *Service) applyConstraintItem(ctx context.Context, item domain.LearnedPreference) error {
	rule := strings.TrimPrefix(item.Key, domain.ConstraintKeyPrefix)
	if item.ConstraintRule != nil {
		rule = *item.ConstraintRule
	}

	intent := domain.IntentAvoid
	if item.ConstraintIntent != nil {
		intent = domain.ConstraintIntent(*item.ConstraintIntent)
	}

	target, inferredScope, _ := classifyRule(rule)
	scope := domain.ScopeToConstraintScope(item.Scope)
	if scope == domain.ScopeGlobal {
		scope = inferredScope
	}

	c, err := domain.NewUnifiedConstraint(item.Value, target, scope, intent, domain.SourceChatbot)
	if err != nil {
		return err
	}
	return s.prefs.ApplyConstraint(ctx, c)
}
