package preference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/kindra-app/kindra-backend/internal/config"
	"github.com/kindra-app/kindra-backend/internal/domain"
	"github.com/kindra-app/kindra-backend/pkg/ctxutil"
)

// newTestService creates a Service over the given mock with default limits.
func newTestService(t *testing.T, mock *prefsRepoMock) *Service {
	t.Helper()
	return &Service{
		prefs: mock,
		cfg: config.EngineConfig{
			MaxValuesPerCategory:   100,
			MaxCustomCategories:    50,
			LowConfidenceThreshold: 0.6,
		},
		log:      slog.Default(),
		sessions: make(map[uuid.UUID]*Editor),
	}
}

// memRepo returns a mock backed by an in-memory map, for flows that read
// back what they wrote.
func memRepo() (*prefsRepoMock, map[uuid.UUID]*domain.UserPreferences) {
	store := make(map[uuid.UUID]*domain.UserPreferences)
	mock := &prefsRepoMock{
		GetFunc: func(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
			doc, ok := store[userID]
			if !ok {
				return nil, domain.ErrNotFound
			}
			clone := doc.Clone()
			return &clone, nil
		},
		SaveFunc: func(ctx context.Context, userID uuid.UUID, doc *domain.UserPreferences) error {
			clone := doc.Clone()
			store[userID] = &clone
			return nil
		},
	}
	return mock, store
}

func mustPrefValue(t *testing.T, raw string, source domain.Source) domain.PreferenceValue {
	t.Helper()
	v, err := domain.NewPreferenceValue(raw, source, domain.SentimentLike, nil, nil)
	if err != nil {
		t.Fatalf("NewPreferenceValue(%q): %v", raw, err)
	}
	return v
}

func TestGet_NoDocument(t *testing.T) {
	t.Parallel()

	mock := &prefsRepoMock{
		GetFunc: func(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(t, mock)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	doc, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc == nil {
		t.Fatal("expected empty document, got nil")
	}
	if doc.SkinType != nil || len(doc.CustomCategories) != 0 || doc.Constraints != nil {
		t.Errorf("expected empty document, got %+v", doc)
	}
}

func TestGet_Unauthorized(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &prefsRepoMock{})

	_, err := svc.Get(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGet_RepoError(t *testing.T) {
	t.Parallel()

	mock := &prefsRepoMock{
		GetFunc: func(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(t, mock)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	if _, err := svc.Get(ctx); err == nil {
		t.Fatal("expected error")
	}
}

func TestAddValue_Canonical(t *testing.T) {
	t.Parallel()

	mock, store := memRepo()
	svc := newTestService(t, mock)
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := svc.AddValue(ctx, AddValueInput{Category: "skin_type", Value: "Oily", Source: "form"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := store[userID]
	if doc.SkinType == nil || len(doc.SkinType.Values) != 1 {
		t.Fatalf("skin_type: got %+v, want one value", doc.SkinType)
	}
	got := doc.SkinType.Values[0]
	if got.NormalizedValue != "oily" {
		t.Errorf("normalized value: got %q, want %q", got.NormalizedValue, "oily")
	}
	if got.Value != "Oily" {
		t.Errorf("original value: got %q, want %q", got.Value, "Oily")
	}
	if got.Confidence != 1.0 {
		t.Errorf("confidence default: got %v, want 1.0", got.Confidence)
	}
}

func TestAddValue_DuplicateIsNoOp(t *testing.T) {
	t.Parallel()

	mock, store := memRepo()
	svc := newTestService(t, mock)
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	if err := svc.AddValue(ctx, AddValueInput{Category: "skin_type", Value: "oily", Source: "form"}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	// Same normalized key, different casing and source.
	if err := svc.AddValue(ctx, AddValueInput{Category: "skin_type", Value: "  OILY ", Source: "chatbot"}); err != nil {
		t.Fatalf("second add: %v", err)
	}

	doc := store[userID]
	if len(doc.SkinType.Values) != 1 {
		t.Fatalf("values: got %d, want 1", len(doc.SkinType.Values))
	}
	if got := doc.SkinType.Values[0].Source; got != domain.SourceForm {
		t.Errorf("source: got %v, want first writer %v", got, domain.SourceForm)
	}
	if calls := len(mock.SaveCalls()); calls != 1 {
		t.Errorf("Save calls: got %d, want 1 (duplicate must not persist)", calls)
	}
}

func TestAddValue_BlankRejected(t *testing.T) {
	t.Parallel()

	mock, _ := memRepo()
	svc := newTestService(t, mock)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	err := svc.AddValue(ctx, AddValueInput{Category: "skin_type", Value: "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if calls := len(mock.GetCalls()); calls != 0 {
		t.Errorf("Get calls: got %d, want 0", calls)
	}
}

func TestAddValue_UnknownSourceRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &prefsRepoMock{})
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	err := svc.AddValue(ctx, AddValueInput{Category: "goals", Value: "hydration", Source: "imported"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestApplyValue_BlankIsDropped(t *testing.T) {
	t.Parallel()

	mock, _ := memRepo()
	svc := newTestService(t, mock)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	if err := svc.ApplyValue(ctx, "skin_type", domain.PreferenceValue{Value: "   "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := len(mock.GetCalls()); calls != 0 {
		t.Errorf("Get calls: got %d, want 0", calls)
	}
}

func TestAddValue_CustomCategory(t *testing.T) {
	t.Parallel()

	mock, store := memRepo()
	svc := newTestService(t, mock)
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := svc.AddValue(ctx, AddValueInput{Category: "fragrance_notes", Value: "Cedar", Source: "chatbot"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := store[userID]
	cat := doc.CustomCategory("fragrance_notes")
	if len(cat.Values) != 1 {
		t.Fatalf("custom category: got %+v, want one value", cat)
	}
}

func TestAddValue_CategoryFull(t *testing.T) {
	t.Parallel()

	mock, _ := memRepo()
	svc := newTestService(t, mock)
	svc.cfg.MaxValuesPerCategory = 2
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	for i := range 2 {
		in := AddValueInput{Category: "goals", Value: fmt.Sprintf("value %d", i)}
		if err := svc.AddValue(ctx, in); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	err := svc.AddValue(ctx, AddValueInput{Category: "goals", Value: "one too many"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddValue_DuplicateInFullCategoryIsNoOp(t *testing.T) {
	t.Parallel()

	mock, store := memRepo()
	svc := newTestService(t, mock)
	svc.cfg.MaxValuesPerCategory = 1
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	if err := svc.AddValue(ctx, AddValueInput{Category: "goals", Value: "Hydration"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Re-adding the present value must stay idempotent even at the limit,
	// not trip the full-category check.
	if err := svc.AddValue(ctx, AddValueInput{Category: "goals", Value: "  hydration "}); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}

	got, _ := store[userID].CategoryByKey("goals")
	if len(got.Values) != 1 {
		t.Errorf("values: got %d, want 1", len(got.Values))
	}
}

func TestAddValue_TooManyCustomCategories(t *testing.T) {
	t.Parallel()

	mock, _ := memRepo()
	svc := newTestService(t, mock)
	svc.cfg.MaxCustomCategories = 1
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	if err := svc.AddValue(ctx, AddValueInput{Category: "first", Value: "a"}); err != nil {
		t.Fatalf("first category: %v", err)
	}
	// Existing custom category still accepts values.
	if err := svc.AddValue(ctx, AddValueInput{Category: "first", Value: "b"}); err != nil {
		t.Fatalf("existing category: %v", err)
	}

	err := svc.AddValue(ctx, AddValueInput{Category: "second", Value: "c"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRemoveValue_AbsentIsNoOp(t *testing.T) {
	t.Parallel()

	mock, _ := memRepo()
	svc := newTestService(t, mock)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	if err := svc.RemoveValue(ctx, RemoveValueInput{Category: "skin_type", Value: "oily"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := len(mock.SaveCalls()); calls != 0 {
		t.Errorf("Save calls: got %d, want 0", calls)
	}
}

func TestRemoveValue_LastValueClearsCategory(t *testing.T) {
	t.Parallel()

	mock, store := memRepo()
	svc := newTestService(t, mock)
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	if err := svc.AddValue(ctx, AddValueInput{Category: "notes", Value: "cedar"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.RemoveValue(ctx, RemoveValueInput{Category: "notes", Value: "Cedar"}); err != nil {
		t.Fatalf("remove: %v", err)
	}

	doc := store[userID]
	if _, ok := doc.CustomCategories["notes"]; ok {
		t.Error("emptied custom category should be removed from the document")
	}
}

func TestAddConstraint_DeterministicIDIsIdempotent(t *testing.T) {
	t.Parallel()

	mock, store := memRepo()
	svc := newTestService(t, mock)
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	first := ConstraintInput{TargetType: "ingredient", TargetValue: "Parabens", Scope: "skincare"}
	if err := svc.AddConstraint(ctx, first); err != nil {
		t.Fatalf("first add: %v", err)
	}
	// Same target after normalization.
	second := ConstraintInput{TargetType: "ingredient", TargetValue: "  PARABENS ", Scope: "skincare"}
	if err := svc.AddConstraint(ctx, second); err != nil {
		t.Fatalf("second add: %v", err)
	}

	doc := store[userID]
	if doc.Constraints == nil || len(doc.Constraints.Items) != 1 {
		t.Fatalf("constraints: got %+v, want exactly one", doc.Constraints)
	}
	if got := doc.Constraints.Items[0].Intent; got != domain.IntentAvoid {
		t.Errorf("intent default: got %v, want %v", got, domain.IntentAvoid)
	}
	if got := doc.Constraints.Budget; got != domain.BudgetNoPreference {
		t.Errorf("budget default: got %v, want %v", got, domain.BudgetNoPreference)
	}
}

func TestAddConstraint_UnknownScopeRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &prefsRepoMock{})
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	err := svc.AddConstraint(ctx, ConstraintInput{TargetValue: "parabens", Scope: "cosmics"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRemoveConstraint_UnknownIDIsNoOp(t *testing.T) {
	t.Parallel()

	mock, store := memRepo()
	svc := newTestService(t, mock)
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	if err := svc.AddConstraint(ctx, ConstraintInput{TargetType: "brand", TargetValue: "acme"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.RemoveConstraint(ctx, "no-such-id"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(store[userID].Constraints.Items); got != 1 {
		t.Errorf("items: got %d, want 1", got)
	}
}

func TestReplaceConstraints(t *testing.T) {
	t.Parallel()

	mock, store := memRepo()
	svc := newTestService(t, mock)
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := svc.ReplaceConstraints(ctx, ReplaceConstraintsInput{
		Budget: "premium",
		Items: []ConstraintInput{
			{TargetValue: "no testing on animals", Intent: "strictly_avoid"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := store[userID]
	if doc.Constraints == nil || doc.Constraints.Budget != domain.BudgetPremium {
		t.Fatalf("constraints: got %+v", doc.Constraints)
	}
	if len(doc.Constraints.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(doc.Constraints.Items))
	}
	got := doc.Constraints.Items[0]
	if got.TargetType != domain.TargetRule || got.Scope != domain.ScopeGlobal {
		t.Errorf("enum defaults: got type=%v scope=%v", got.TargetType, got.Scope)
	}
	if got.Intent != domain.IntentStrictlyAvoid {
		t.Errorf("intent: got %v, want %v", got.Intent, domain.IntentStrictlyAvoid)
	}
}

func TestReplaceConstraints_KeepsChatbotLearned(t *testing.T) {
	t.Parallel()

	mock, store := memRepo()
	svc := newTestService(t, mock)
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	learned, err := domain.NewUnifiedConstraint("retinol", domain.TargetIngredient, domain.ScopeSkincare, domain.IntentAvoid, domain.SourceChatbot)
	if err != nil {
		t.Fatalf("NewUnifiedConstraint: %v", err)
	}
	stale, err := domain.NewUnifiedConstraint("acme", domain.TargetBrand, domain.ScopeGlobal, domain.IntentAvoid, domain.SourceManual)
	if err != nil {
		t.Fatalf("NewUnifiedConstraint: %v", err)
	}
	uc := domain.UnifiedConstraints{Budget: domain.BudgetAffordable}.Add(learned).Add(stale)
	store[userID] = &domain.UserPreferences{Constraints: &uc}

	// Full form resubmission that mentions neither existing constraint.
	err = svc.ReplaceConstraints(ctx, ReplaceConstraintsInput{
		Items: []ConstraintInput{
			{TargetType: "ingredient", TargetValue: "parabens", Scope: "skincare"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := store[userID]
	if doc.Constraints == nil || len(doc.Constraints.Items) != 2 {
		t.Fatalf("constraints: got %+v, want parabens plus the learned retinol", doc.Constraints)
	}
	if !doc.Constraints.Has(learned.ID) {
		t.Error("chatbot-learned constraint must survive a form overwrite")
	}
	if doc.Constraints.Has(stale.ID) {
		t.Error("manual constraint absent from the resubmission should be dropped")
	}
}

func TestReplaceConstraints_BadItemReported(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &prefsRepoMock{})
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	err := svc.ReplaceConstraints(ctx, ReplaceConstraintsInput{
		Items: []ConstraintInput{
			{TargetValue: "fine"},
			{TargetValue: ""},
		},
	})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Errors) != 1 || verr.Errors[0].Field != "items[1].targetValue" {
		t.Errorf("field errors: got %+v", verr.Errors)
	}
}

func TestStartEditing_ReplacesExistingSession(t *testing.T) {
	t.Parallel()

	mock, _ := memRepo()
	svc := newTestService(t, mock)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	first, err := svc.StartEditing(ctx)
	if err != nil {
		t.Fatalf("first session: %v", err)
	}
	if err := first.AddValue(AddValueInput{Category: "goals", Value: "hydration"}); err != nil {
		t.Fatalf("draft add: %v", err)
	}

	second, err := svc.StartEditing(ctx)
	if err != nil {
		t.Fatalf("second session: %v", err)
	}
	if first == second {
		t.Fatal("expected a fresh editor")
	}
	if d := second.Diff(); !d.None() {
		t.Errorf("new session should start clean, diff %+v", d)
	}

	active, ok := svc.ActiveEditor(ctx)
	if !ok || active != second {
		t.Error("active editor should be the latest session")
	}
}

func TestStopEditing_DropsDraft(t *testing.T) {
	t.Parallel()

	mock, _ := memRepo()
	svc := newTestService(t, mock)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	if _, err := svc.StartEditing(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.StopEditing(ctx)

	if _, ok := svc.ActiveEditor(ctx); ok {
		t.Error("session should be gone after StopEditing")
	}
	if calls := len(mock.SaveCalls()); calls != 0 {
		t.Errorf("Save calls: got %d, want 0", calls)
	}
}
