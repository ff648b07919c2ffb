package preference

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kindra-app/kindra-backend/internal/domain"
)

// AddValueInput holds the parameters for adding a preference value.
type AddValueInput struct {
	Category   string
	Value      string
	Source     string
	Sentiment  string
	Confidence *float64
	Evidence   *string
}

// Validate checks all fields and collects all errors.
func (i AddValueInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Category) == "" {
		errs = append(errs, domain.FieldError{Field: "category", Message: "required"})
	}
	if len(i.Category) > 100 {
		errs = append(errs, domain.FieldError{Field: "category", Message: "max 100 characters"})
	}
	if strings.TrimSpace(i.Value) == "" {
		errs = append(errs, domain.FieldError{Field: "value", Message: "required"})
	}
	if len(i.Value) > 200 {
		errs = append(errs, domain.FieldError{Field: "value", Message: "max 200 characters"})
	}
	if i.Source != "" && !domain.Source(i.Source).IsValid() {
		errs = append(errs, domain.FieldError{Field: "source", Message: "must be one of: form, chatbot, manual"})
	}
	if i.Sentiment != "" && !domain.Sentiment(i.Sentiment).IsValid() {
		errs = append(errs, domain.FieldError{Field: "sentiment", Message: "must be one of: like, dislike"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// toValue builds the domain value. Omitted source and sentiment default to
// manual entry with positive sentiment; confidence is clamped downstream.
func (i AddValueInput) toValue() (domain.PreferenceValue, error) {
	source := domain.SourceManual
	if i.Source != "" {
		source = domain.Source(i.Source)
	}
	sentiment := domain.SentimentLike
	if i.Sentiment != "" {
		sentiment = domain.Sentiment(i.Sentiment)
	}
	return domain.NewPreferenceValue(i.Value, source, sentiment, i.Confidence, i.Evidence)
}

// RemoveValueInput holds the parameters for removing a preference value.
type RemoveValueInput struct {
	Category string
	Value    string
}

// Validate checks all fields and collects all errors.
func (i RemoveValueInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.Category) == "" {
		errs = append(errs, domain.FieldError{Field: "category", Message: "required"})
	}
	if strings.TrimSpace(i.Value) == "" {
		errs = append(errs, domain.FieldError{Field: "value", Message: "required"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ConstraintInput holds the parameters for adding a unified constraint.
type ConstraintInput struct {
	TargetType  string
	TargetValue string
	Scope       string
	Intent      string
}

// Validate checks all fields and collects all errors. Empty enum fields are
// allowed and fall back to rule/global/avoid; invalid ones are rejected.
func (i ConstraintInput) Validate() error {
	return i.validateAt("")
}

func (i ConstraintInput) validateAt(prefix string) error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.TargetValue) == "" {
		errs = append(errs, domain.FieldError{Field: prefix + "targetValue", Message: "required"})
	}
	if len(i.TargetValue) > 200 {
		errs = append(errs, domain.FieldError{Field: prefix + "targetValue", Message: "max 200 characters"})
	}
	if i.TargetType != "" && !domain.TargetType(i.TargetType).IsValid() {
		errs = append(errs, domain.FieldError{Field: prefix + "targetType", Message: "unknown target type"})
	}
	if i.Scope != "" && !domain.ConstraintScope(i.Scope).IsValid() {
		errs = append(errs, domain.FieldError{Field: prefix + "scope", Message: "unknown scope"})
	}
	if i.Intent != "" && !domain.ConstraintIntent(i.Intent).IsValid() {
		errs = append(errs, domain.FieldError{Field: prefix + "intent", Message: "must be one of: avoid, strictly_avoid"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i ConstraintInput) toConstraint(source domain.Source) (domain.UnifiedConstraint, error) {
	return domain.NewUnifiedConstraint(
		i.TargetValue,
		domain.TargetType(i.TargetType),
		domain.ConstraintScope(i.Scope),
		domain.ConstraintIntent(i.Intent),
		source,
	)
}

// ReplaceConstraintsInput holds a full replacement constraint block.
type ReplaceConstraintsInput struct {
	Budget string
	Items  []ConstraintInput
}

// Validate checks all fields and collects all errors.
func (i ReplaceConstraintsInput) Validate() error {
	var errs []domain.FieldError

	if i.Budget != "" && !domain.Budget(i.Budget).IsValid() {
		errs = append(errs, domain.FieldError{Field: "budget", Message: "unknown budget tier"})
	}
	for idx, item := range i.Items {
		if err := item.validateAt(fmt.Sprintf("items[%d].", idx)); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				errs = append(errs, verr.Errors...)
			}
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SubmitCategoryInput holds a full-form resubmission of one category.
type SubmitCategoryInput struct {
	Category string
	Values   []string
}

// Validate checks all fields and collects all errors.
func (i SubmitCategoryInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Category) == "" {
		errs = append(errs, domain.FieldError{Field: "category", Message: "required"})
	}
	for idx, v := range i.Values {
		if len(v) > 200 {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("values[%d]", idx), Message: "max 200 characters"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
