package domain

import (
	"time"
)

// PreferenceValue is one entry inside a preference category.
// NormalizedValue is the dedup key within its category; Value keeps the
// display form the user (or the extraction feed) originally supplied.
type PreferenceValue struct {
	Value           string    `json:"value"`
	NormalizedValue string    `json:"normalizedValue"`
	Source          Source    `json:"source"`
	Sentiment       Sentiment `json:"sentiment"`
	Confidence      float64   `json:"confidence"`
	Evidence        *string   `json:"evidence,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewPreferenceValue builds a PreferenceValue from a raw display string.
// Confidence is clamped into [0,1]; a nil confidence defaults to 1.0
// (the value was entered directly, not inferred).
// A blank value returns ErrValidation; callers treat this as a silent drop.
func NewPreferenceValue(value string, source Source, sentiment Sentiment, confidence *float64, evidence *string) (PreferenceValue, error) {
	normalized := NormalizeValue(value)
	if normalized == "" {
		return PreferenceValue{}, NewValidationError("value", "required")
	}

	conf := 1.0
	if confidence != nil {
		conf = clampConfidence(*confidence)
	}

	return PreferenceValue{
		Value:           value,
		NormalizedValue: normalized,
		Source:          source,
		Sentiment:       sentiment,
		Confidence:      conf,
		Evidence:        evidence,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// PreferenceCategory holds the values of one canonical slot or one custom
// category. A category with no values is represented as absent in the
// document, never as an empty object.
type PreferenceCategory struct {
	Values []PreferenceValue `json:"values"`
}

// Has reports whether a value with the given normalized key exists.
func (c PreferenceCategory) Has(normalized string) bool {
	for _, v := range c.Values {
		if v.NormalizedValue == normalized {
			return true
		}
	}
	return false
}

// Empty reports whether the category holds no values.
func (c PreferenceCategory) Empty() bool { return len(c.Values) == 0 }

// Add returns a category with v appended. If a value with the same
// normalized key already exists the category is returned unchanged:
// the first write wins and a later duplicate is a no-op.
func (c PreferenceCategory) Add(v PreferenceValue) PreferenceCategory {
	if c.Has(v.NormalizedValue) {
		return c.clone()
	}
	out := c.clone()
	out.Values = append(out.Values, v)
	return out
}

// Remove returns a category without any value matching the normalized key.
// Removing an absent key returns the category unchanged.
func (c PreferenceCategory) Remove(normalized string) PreferenceCategory {
	out := PreferenceCategory{}
	for _, v := range c.Values {
		if v.NormalizedValue != normalized {
			out.Values = append(out.Values, v)
		}
	}
	return out
}

// MergeKeeping unions the category's values with preserve, deduplicating by
// normalized key. Values already in the category win over preserve on
// conflict. Used when a full-form resubmission would otherwise overwrite
// values learned from conversation.
func (c PreferenceCategory) MergeKeeping(preserve []PreferenceValue) PreferenceCategory {
	out := c.clone()
	for _, p := range preserve {
		if !out.Has(p.NormalizedValue) {
			out.Values = append(out.Values, p)
		}
	}
	return out
}

// ValuesFromSource returns the values tagged with the given source.
func (c PreferenceCategory) ValuesFromSource(src Source) []PreferenceValue {
	var out []PreferenceValue
	for _, v := range c.Values {
		if v.Source == src {
			out = append(out, v)
		}
	}
	return out
}

func (c PreferenceCategory) clone() PreferenceCategory {
	if len(c.Values) == 0 {
		return PreferenceCategory{}
	}
	out := PreferenceCategory{Values: make([]PreferenceValue, len(c.Values))}
	copy(out.Values, c.Values)
	return out
}

// UserPreferences is the single preference document persisted per user:
// six canonical slots, free-form custom categories, constraints, and the
// onboarding flag.
type UserPreferences struct {
	SkinType            *PreferenceCategory           `json:"skin_type,omitempty"`
	HairType            *PreferenceCategory           `json:"hair_type,omitempty"`
	FoodPreferences     *PreferenceCategory           `json:"food_preferences,omitempty"`
	Lifestyle           *PreferenceCategory           `json:"lifestyle,omitempty"`
	GenrePreferences    *PreferenceCategory           `json:"genre_preferences,omitempty"`
	Goals               *PreferenceCategory           `json:"goals,omitempty"`
	CustomCategories    map[string]PreferenceCategory `json:"custom_categories,omitempty"`
	Constraints         *UnifiedConstraints           `json:"constraints,omitempty"`
	OnboardingCompleted bool                          `json:"onboarding_completed"`
}

// Category returns the category stored in the given canonical slot,
// or an empty category if the slot is absent.
func (p *UserPreferences) Category(field CanonicalField) PreferenceCategory {
	if slot := p.slot(field); slot != nil && *slot != nil {
		return **slot
	}
	return PreferenceCategory{}
}

// SetCategory stores cat in the given canonical slot. An empty category
// clears the slot so that "no values" and "never touched" stay
// indistinguishable in the document.
func (p *UserPreferences) SetCategory(field CanonicalField, cat PreferenceCategory) {
	slot := p.slot(field)
	if slot == nil {
		return
	}
	if cat.Empty() {
		*slot = nil
		return
	}
	*slot = &cat
}

// SetCustomCategory stores cat under the free-form category name,
// removing the map entry when the category is empty.
func (p *UserPreferences) SetCustomCategory(name string, cat PreferenceCategory) {
	if cat.Empty() {
		delete(p.CustomCategories, name)
		if len(p.CustomCategories) == 0 {
			p.CustomCategories = nil
		}
		return
	}
	if p.CustomCategories == nil {
		p.CustomCategories = make(map[string]PreferenceCategory)
	}
	p.CustomCategories[name] = cat
}

// CustomCategory returns the custom category with the given name,
// or an empty category if absent.
func (p *UserPreferences) CustomCategory(name string) PreferenceCategory {
	return p.CustomCategories[name]
}

// CategoryByKey resolves key as a canonical field name first, then as a
// custom category name. The second return reports whether key named a
// canonical slot.
func (p *UserPreferences) CategoryByKey(key string) (PreferenceCategory, bool) {
	field := CanonicalField(key)
	if field.IsValid() {
		return p.Category(field), true
	}
	return p.CustomCategory(key), false
}

// SetCategoryByKey stores cat under key, resolving canonical slots the same
// way CategoryByKey does.
func (p *UserPreferences) SetCategoryByKey(key string, cat PreferenceCategory) {
	field := CanonicalField(key)
	if field.IsValid() {
		p.SetCategory(field, cat)
		return
	}
	p.SetCustomCategory(key, cat)
}

// HasNormalizedValue reports whether the normalized key exists anywhere in
// the document: canonical slots, custom categories, or constraint targets.
func (p *UserPreferences) HasNormalizedValue(normalized string) bool {
	for _, field := range CanonicalFields {
		if p.Category(field).Has(normalized) {
			return true
		}
	}
	for _, cat := range p.CustomCategories {
		if cat.Has(normalized) {
			return true
		}
	}
	if p.Constraints != nil {
		for _, c := range p.Constraints.Items {
			if NormalizeValue(c.TargetValue) == normalized {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the document.
func (p *UserPreferences) Clone() UserPreferences {
	out := UserPreferences{OnboardingCompleted: p.OnboardingCompleted}
	for _, field := range CanonicalFields {
		if cat := p.Category(field); !cat.Empty() {
			out.SetCategory(field, cat.clone())
		}
	}
	if len(p.CustomCategories) > 0 {
		out.CustomCategories = make(map[string]PreferenceCategory, len(p.CustomCategories))
		for name, cat := range p.CustomCategories {
			out.CustomCategories[name] = cat.clone()
		}
	}
	if p.Constraints != nil {
		uc := p.Constraints.clone()
		out.Constraints = &uc
	}
	return out
}

func (p *UserPreferences) slot(field CanonicalField) **PreferenceCategory {
	switch field {
	case FieldSkinType:
		return &p.SkinType
	case FieldHairType:
		return &p.HairType
	case FieldFoodPreferences:
		return &p.FoodPreferences
	case FieldLifestyle:
		return &p.Lifestyle
	case FieldGenrePreferences:
		return &p.GenrePreferences
	case FieldGoals:
		return &p.Goals
	}
	return nil
}
