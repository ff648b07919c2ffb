package preference

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kindra-app/kindra-backend/internal/domain"
	"github.com/kindra-app/kindra-backend/pkg/ctxutil"
)

// Direct document operations. These write the committed copy immediately;
// the approval path and programmatic callers use them; interactive form
// editing goes through an Editor instead.

// AddValue validates and adds a preference value to the category named in
// the input. Adding a duplicate normalized value is a no-op.
func (s *Service) AddValue(ctx context.Context, input AddValueInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	v, err := input.toValue()
	if err != nil {
		return err
	}
	return s.ApplyValue(ctx, strings.TrimSpace(input.Category), v)
}

// ApplyValue adds an already-built preference value to the category
// identified by key (a canonical field name or a custom category name).
// A blank value is silently dropped; a duplicate normalized value is a no-op.
func (s *Service) ApplyValue(ctx context.Context, key string, v domain.PreferenceValue) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if v.NormalizedValue == "" {
		// Blank values are dropped, not surfaced as errors.
		return nil
	}

	doc, err := s.Get(ctx)
	if err != nil {
		return err
	}

	cat, canonical := doc.CategoryByKey(key)
	// Duplicates are absorbed before the limit check so re-adding a present
	// value to a full category stays a no-op.
	if cat.Has(v.NormalizedValue) {
		return nil // first write wins
	}
	if err := s.checkLimits(doc, canonical, cat); err != nil {
		return err
	}
	doc.SetCategoryByKey(key, cat.Add(v))

	if err := s.save(ctx, userID, doc); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "preference value added",
		slog.String("user_id", userID.String()),
		slog.String("category", key),
		slog.String("normalized_value", v.NormalizedValue),
		slog.String("source", v.Source.String()),
	)
	return nil
}

// RemoveValue removes a value from the category named in the input.
// Removing an absent value is a no-op.
func (s *Service) RemoveValue(ctx context.Context, input RemoveValueInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	doc, err := s.Get(ctx)
	if err != nil {
		return err
	}

	key := strings.TrimSpace(input.Category)
	normalized := domain.NormalizeValue(input.Value)

	cat, _ := doc.CategoryByKey(key)
	updated := cat.Remove(normalized)
	if len(updated.Values) == len(cat.Values) {
		return nil
	}
	doc.SetCategoryByKey(key, updated)

	if err := s.save(ctx, userID, doc); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "preference value removed",
		slog.String("user_id", userID.String()),
		slog.String("category", key),
		slog.String("normalized_value", normalized),
	)
	return nil
}

// ReplaceConstraints replaces the constraint block with the one built from
// the input, stamped as manual entries, while keeping chatbot-learned
// constraints the submission does not mention. Learned constraints only
// leave the document through explicit removal, never through a form
// resubmission that happens to omit them.
func (s *Service) ReplaceConstraints(ctx context.Context, input ReplaceConstraintsInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	budget := domain.BudgetNoPreference
	if input.Budget != "" {
		budget = domain.Budget(input.Budget)
	}
	uc := domain.UnifiedConstraints{Budget: budget}
	for _, item := range input.Items {
		c, err := item.toConstraint(domain.SourceManual)
		if err != nil {
			return err
		}
		uc = uc.Add(c)
	}

	doc, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if doc.Constraints != nil {
		uc = uc.MergeKeeping(doc.Constraints.ItemsFromSource(domain.SourceChatbot))
	}
	doc.Constraints = &uc

	if err := s.save(ctx, userID, doc); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "constraints replaced",
		slog.String("user_id", userID.String()),
		slog.Int("items", len(uc.Items)),
		slog.String("budget", uc.Budget.String()),
	)
	return nil
}

// AddConstraint validates and appends a single manual constraint.
func (s *Service) AddConstraint(ctx context.Context, input ConstraintInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	c, err := input.toConstraint(domain.SourceManual)
	if err != nil {
		return err
	}
	return s.ApplyConstraint(ctx, c)
}

// ApplyConstraint appends an already-built unified constraint. Adding a
// constraint whose derived ID already exists is a no-op.
func (s *Service) ApplyConstraint(ctx context.Context, c domain.UnifiedConstraint) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	doc, err := s.Get(ctx)
	if err != nil {
		return err
	}

	uc := domain.UnifiedConstraints{Budget: domain.BudgetNoPreference}
	if doc.Constraints != nil {
		uc = *doc.Constraints
	}
	updated := uc.Add(c)
	doc.Constraints = &updated

	if err := s.save(ctx, userID, doc); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "constraint added",
		slog.String("user_id", userID.String()),
		slog.String("constraint_id", c.ID),
		slog.String("target_type", c.TargetType.String()),
		slog.String("scope", c.Scope.String()),
	)
	return nil
}

// RemoveConstraint removes the constraint with the given id. Removing an
// unknown id leaves the document untouched and is not an error.
func (s *Service) RemoveConstraint(ctx context.Context, id string) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "required")
	}

	doc, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if doc.Constraints == nil || !doc.Constraints.Has(id) {
		return nil
	}

	updated := doc.Constraints.RemoveByID(id)
	doc.Constraints = &updated
	return s.save(ctx, userID, doc)
}

// checkLimits guards category growth against the configured engine limits.
func (s *Service) checkLimits(doc *domain.UserPreferences, canonical bool, cat domain.PreferenceCategory) error {
	if len(cat.Values) >= s.cfg.MaxValuesPerCategory {
		return domain.NewValidationError("category", "category is full")
	}
	if !canonical && cat.Empty() && len(doc.CustomCategories) >= s.cfg.MaxCustomCategories {
		return domain.NewValidationError("category", "too many custom categories")
	}
	return nil
}
