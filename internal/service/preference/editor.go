package preference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/kindra-app/kindra-backend/internal/domain"
)

// Editor is the two-phase holder behind optimistic, cancellable edits:
// a committed copy of the document plus a working draft. Mutators touch only
// the draft; Commit and Discard are the only transitions between the two.
type Editor struct {
	svc    *Service
	userID uuid.UUID

	mu        sync.Mutex
	committed domain.UserPreferences
	draft     domain.UserPreferences
}

func newEditor(svc *Service, userID uuid.UUID, committed domain.UserPreferences) *Editor {
	return &Editor{
		svc:       svc,
		userID:    userID,
		committed: committed,
		draft:     committed.Clone(),
	}
}

// Draft returns a copy of the working draft.
func (e *Editor) Draft() domain.UserPreferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// Committed returns a copy of the last committed document.
func (e *Editor) Committed() domain.UserPreferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed.Clone()
}

// AddValue validates and adds a preference value to the draft category.
// A duplicate normalized key is a no-op.
func (e *Editor) AddValue(input AddValueInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	if input.Source == "" {
		input.Source = string(domain.SourceForm)
	}
	v, err := input.toValue()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	key := strings.TrimSpace(input.Category)
	cat, canonical := e.draft.CategoryByKey(key)
	if cat.Has(v.NormalizedValue) {
		return nil
	}
	if err := e.svc.checkLimits(&e.draft, canonical, cat); err != nil {
		return err
	}
	e.draft.SetCategoryByKey(key, cat.Add(v))
	return nil
}

// RemoveValue removes a value from the draft category identified by key.
// Removing an absent value is a no-op.
func (e *Editor) RemoveValue(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cat, _ := e.draft.CategoryByKey(key)
	e.draft.SetCategoryByKey(key, cat.Remove(domain.NormalizeValue(value)))
}

// SubmitCategory replaces a draft category with the values from a full-form
// resubmission, preserving chatbot-sourced values the form does not carry.
// Externally-learned values can only leave the document through explicit
// removal, never through a form overwrite.
func (e *Editor) SubmitCategory(input SubmitCategoryInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	submitted := domain.PreferenceCategory{}
	for _, raw := range input.Values {
		v, err := domain.NewPreferenceValue(raw, domain.SourceForm, domain.SentimentLike, nil, nil)
		if err != nil {
			continue // blank entry
		}
		submitted = submitted.Add(v)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	key := strings.TrimSpace(input.Category)
	existing, _ := e.draft.CategoryByKey(key)
	merged := submitted.MergeKeeping(existing.ValuesFromSource(domain.SourceChatbot))
	if len(merged.Values) > e.svc.cfg.MaxValuesPerCategory {
		return domain.NewValidationError("values", "category is full")
	}
	e.draft.SetCategoryByKey(key, merged)
	return nil
}

// SetConstraints replaces the draft constraint block, keeping chatbot-learned
// constraints the replacement does not mention.
func (e *Editor) SetConstraints(uc domain.UnifiedConstraints) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft.Constraints != nil {
		uc = uc.MergeKeeping(e.draft.Constraints.ItemsFromSource(domain.SourceChatbot))
	}
	e.draft.Constraints = &uc
}

// SetOnboardingCompleted flags the draft document.
func (e *Editor) SetOnboardingCompleted(done bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.OnboardingCompleted = done
}

// Diff reports how many normalized values the draft adds and removes
// relative to the committed document.
func (e *Editor) Diff() domain.Diff {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.DiffPreferences(e.committed, e.draft)
}

// IsPendingRemoval reports whether a committed value is absent from the
// draft, i.e. will disappear on the next commit.
func (e *Editor) IsPendingRemoval(key, normalized string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.IsPendingRemoval(e.committed, e.draft, key, domain.NormalizeValue(normalized))
}

// Commit persists the draft as the new committed document in a single
// atomic write. On persistence failure the draft is retained unchanged so
// the user can retry without re-entering data.
func (e *Editor) Commit(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc := e.draft.Clone()
	if err := e.svc.save(ctx, e.userID, &doc); err != nil {
		return fmt.Errorf("commit draft: %w", err)
	}

	e.committed = e.draft.Clone()

	e.svc.log.InfoContext(ctx, "draft committed",
		slog.String("user_id", e.userID.String()))
	return nil
}

// Discard resets the draft from the committed document. No persistence call.
func (e *Editor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = e.committed.Clone()
}
