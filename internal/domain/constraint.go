package domain

import (
	"time"

	"github.com/google/uuid"
)

// constraintNamespace is the UUIDv5 namespace for deterministic constraint
// IDs, so re-migrating the same legacy document yields stable IDs.
var constraintNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("constraints.kindra.app"))

// UnifiedConstraint is a value the user wants excluded from recommendations.
type UnifiedConstraint struct {
	ID          string           `json:"id"`
	TargetType  TargetType       `json:"targetType"`
	TargetValue string           `json:"targetValue"`
	Scope       ConstraintScope  `json:"scope"`
	Intent      ConstraintIntent `json:"intent"`
	Source      Source           `json:"source"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ConstraintID derives the deterministic ID for a constraint from its target
// type, scope, and normalized target value.
func ConstraintID(targetType TargetType, scope ConstraintScope, targetValue string) string {
	key := string(targetType) + "|" + string(scope) + "|" + NormalizeValue(targetValue)
	return uuid.NewSHA1(constraintNamespace, []byte(key)).String()
}

// NewUnifiedConstraint builds a UnifiedConstraint with a deterministic ID.
// A blank target value returns ErrValidation; callers treat this as a
// silent drop.
func NewUnifiedConstraint(targetValue string, targetType TargetType, scope ConstraintScope, intent ConstraintIntent, source Source) (UnifiedConstraint, error) {
	if NormalizeValue(targetValue) == "" {
		return UnifiedConstraint{}, NewValidationError("targetValue", "required")
	}
	if !targetType.IsValid() {
		targetType = TargetRule
	}
	if !scope.IsValid() {
		scope = ScopeGlobal
	}
	if !intent.IsValid() {
		intent = IntentAvoid
	}

	return UnifiedConstraint{
		ID:          ConstraintID(targetType, scope, targetValue),
		TargetType:  targetType,
		TargetValue: targetValue,
		Scope:       scope,
		Intent:      intent,
		Source:      source,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// UnifiedConstraints is the canonical constraint container: a flat item list
// plus the budget band.
type UnifiedConstraints struct {
	Items  []UnifiedConstraint `json:"items"`
	Budget Budget              `json:"budget"`
}

// Has reports whether a constraint with the given ID exists.
func (u UnifiedConstraints) Has(id string) bool {
	for _, c := range u.Items {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Add returns a container with c appended, unless a constraint with the same
// ID already exists (add is idempotent).
func (u UnifiedConstraints) Add(c UnifiedConstraint) UnifiedConstraints {
	if u.Has(c.ID) {
		return u.clone()
	}
	out := u.clone()
	out.Items = append(out.Items, c)
	return out
}

// ItemsFromSource returns the constraints stamped with the given source.
func (u UnifiedConstraints) ItemsFromSource(src Source) []UnifiedConstraint {
	var out []UnifiedConstraint
	for _, c := range u.Items {
		if c.Source == src {
			out = append(out, c)
		}
	}
	return out
}

// MergeKeeping returns a container holding u's items plus every kept
// constraint whose ID u does not already carry. Like the category merge,
// the receiver wins on ID collisions.
func (u UnifiedConstraints) MergeKeeping(kept []UnifiedConstraint) UnifiedConstraints {
	out := u.clone()
	for _, c := range kept {
		if !out.Has(c.ID) {
			out.Items = append(out.Items, c)
		}
	}
	return out
}

// RemoveByID returns a container without the constraint carrying id.
// Removing an unknown id returns an equal container.
func (u UnifiedConstraints) RemoveByID(id string) UnifiedConstraints {
	out := UnifiedConstraints{Budget: u.Budget}
	for _, c := range u.Items {
		if c.ID != id {
			out.Items = append(out.Items, c)
		}
	}
	return out
}

func (u UnifiedConstraints) clone() UnifiedConstraints {
	out := UnifiedConstraints{Budget: u.Budget}
	if len(u.Items) > 0 {
		out.Items = make([]UnifiedConstraint, len(u.Items))
		copy(out.Items, u.Items)
	}
	return out
}

// LegacyCustomConstraint is one entry of the legacy free-form constraint list.
type LegacyCustomConstraint struct {
	Rule   string `json:"rule"`
	Intent string `json:"intent,omitempty"`
}

// LegacyConstraints is the flat-array constraint shape written by older
// clients. It is read-only: documents are rewritten to UnifiedConstraints on
// first load.
type LegacyConstraints struct {
	AvoidIngredients  []string                 `json:"avoidIngredients,omitempty"`
	AvoidBrands       []string                 `json:"avoidBrands,omitempty"`
	AvoidProductForms []string                 `json:"avoidProductForms,omitempty"`
	Budget            Budget                   `json:"budget,omitempty"`
	Custom            []LegacyCustomConstraint `json:"custom,omitempty"`
}
