package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// rawDocument mirrors the persisted JSON loosely enough to accept both the
// canonical shape and the legacy flat shapes written by older clients.
type rawDocument struct {
	SkinType            json.RawMessage            `json:"skin_type"`
	HairType            json.RawMessage            `json:"hair_type"`
	FoodPreferences     json.RawMessage            `json:"food_preferences"`
	Lifestyle           json.RawMessage            `json:"lifestyle"`
	GenrePreferences    json.RawMessage            `json:"genre_preferences"`
	Goals               json.RawMessage            `json:"goals"`
	CustomCategories    map[string]json.RawMessage `json:"custom_categories"`
	Constraints         json.RawMessage            `json:"constraints"`
	UnifiedConstraints  json.RawMessage            `json:"unifiedConstraints"`
	OnboardingCompleted bool                       `json:"onboarding_completed"`
}

func (d *rawDocument) field(f CanonicalField) json.RawMessage {
	switch f {
	case FieldSkinType:
		return d.SkinType
	case FieldHairType:
		return d.HairType
	case FieldFoodPreferences:
		return d.FoodPreferences
	case FieldLifestyle:
		return d.Lifestyle
	case FieldGenrePreferences:
		return d.GenrePreferences
	case FieldGoals:
		return d.Goals
	}
	return nil
}

// IsLegacyPreferences reports whether the raw document still uses a legacy
// shape: a bare string or bare array in any category slot, or a flat-array
// constraint block.
func IsLegacyPreferences(raw []byte) bool {
	var doc rawDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	for _, f := range CanonicalFields {
		if isLegacyCategory(doc.field(f)) {
			return true
		}
	}
	for _, custom := range doc.CustomCategories {
		if isLegacyCategory(custom) {
			return true
		}
	}
	return IsLegacyConstraints(doc.Constraints)
}

// IsLegacyConstraints reports whether the raw constraint block lacks the
// canonical {items:[...]} wrapper while carrying legacy flat-array keys.
func IsLegacyConstraints(raw []byte) bool {
	if isAbsent(raw) || firstByte(raw) != '{' {
		return false
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return false
	}
	if _, ok := keys["items"]; ok {
		return false
	}
	for _, legacy := range []string{"avoidIngredients", "avoidBrands", "avoidProductForms", "custom"} {
		if _, ok := keys[legacy]; ok {
			return true
		}
	}
	return false
}

func isLegacyCategory(raw json.RawMessage) bool {
	switch firstByte(raw) {
	case '"', '[':
		return true
	}
	return false
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// DecodeUserPreferences turns a raw persisted document into the canonical
// shape, migrating legacy fields in place. Canonical input passes through
// unchanged, so decoding is safe to run any number of times.
//
// Migration never loses data and never fails a whole document over one bad
// field: an unparseable category falls back to absent while the remaining
// fields migrate normally.
func DecodeUserPreferences(raw []byte) (UserPreferences, error) {
	var doc rawDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return UserPreferences{}, fmt.Errorf("decode preferences document: %w", err)
	}

	out := UserPreferences{OnboardingCompleted: doc.OnboardingCompleted}

	for _, f := range CanonicalFields {
		if cat := migrateCategory(doc.field(f)); cat != nil {
			out.SetCategory(f, *cat)
		}
	}
	for name, rawCat := range doc.CustomCategories {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if cat := migrateCategory(rawCat); cat != nil {
			out.SetCustomCategory(trimmed, *cat)
		}
	}

	out.Constraints = decodeConstraints(doc.UnifiedConstraints, doc.Constraints)

	return out, nil
}

// migrateCategory accepts the canonical {values:[...]} wrapper, a bare
// comma-joined string, or a bare string array. Anything else (including an
// empty result) yields nil, which the document stores as an absent slot.
func migrateCategory(raw json.RawMessage) *PreferenceCategory {
	if isAbsent(raw) {
		return nil
	}

	switch firstByte(raw) {
	case '{':
		var cat PreferenceCategory
		if err := json.Unmarshal(raw, &cat); err != nil {
			return nil
		}
		return sanitizeCategory(cat)
	case '"':
		var joined string
		if err := json.Unmarshal(raw, &joined); err != nil {
			return nil
		}
		return categoryFromStrings(strings.Split(joined, ","))
	case '[':
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		return categoryFromStrings(items)
	}
	return nil
}

// sanitizeCategory drops blank entries, restores missing normalized keys,
// and deduplicates by normalized key (first write wins).
func sanitizeCategory(cat PreferenceCategory) *PreferenceCategory {
	out := PreferenceCategory{}
	for _, v := range cat.Values {
		if v.NormalizedValue == "" {
			v.NormalizedValue = NormalizeValue(v.Value)
		}
		if v.NormalizedValue == "" {
			continue
		}
		if !v.Source.IsValid() {
			v.Source = SourceForm
		}
		if !v.Sentiment.IsValid() {
			v.Sentiment = SentimentLike
		}
		v.Confidence = clampConfidence(v.Confidence)
		out = out.Add(v)
	}
	if out.Empty() {
		return nil
	}
	return &out
}

func categoryFromStrings(items []string) *PreferenceCategory {
	out := PreferenceCategory{}
	for _, item := range items {
		v, err := NewPreferenceValue(item, SourceForm, SentimentLike, nil, nil)
		if err != nil {
			continue // blank entry
		}
		out = out.Add(v)
	}
	if out.Empty() {
		return nil
	}
	return &out
}

// decodeConstraints prefers the unifiedConstraints block when present, then
// falls back to constraints in either canonical or legacy shape. An
// unparseable block yields nil rather than failing the document.
func decodeConstraints(unified, constraints json.RawMessage) *UnifiedConstraints {
	raw := unified
	if isAbsent(raw) {
		raw = constraints
	}
	if isAbsent(raw) {
		return nil
	}

	if !IsLegacyConstraints(raw) {
		var uc UnifiedConstraints
		if err := json.Unmarshal(raw, &uc); err != nil {
			return nil
		}
		return sanitizeConstraints(uc)
	}

	var legacy LegacyConstraints
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil
	}
	uc := MigrateConstraints(legacy)
	return &uc
}

func sanitizeConstraints(uc UnifiedConstraints) *UnifiedConstraints {
	out := UnifiedConstraints{Budget: uc.Budget}
	if !out.Budget.IsValid() {
		out.Budget = BudgetNoPreference
	}
	for _, c := range uc.Items {
		if NormalizeValue(c.TargetValue) == "" {
			continue
		}
		if !c.TargetType.IsValid() {
			c.TargetType = TargetRule
		}
		if !c.Scope.IsValid() {
			c.Scope = ScopeGlobal
		}
		if !c.Intent.IsValid() {
			c.Intent = IntentAvoid
		}
		if !c.Source.IsValid() {
			c.Source = SourceManual
		}
		if c.ID == "" {
			c.ID = ConstraintID(c.TargetType, c.Scope, c.TargetValue)
		}
		out = out.Add(c)
	}
	return &out
}

// MigrateConstraints rewrites the legacy flat-array constraint shape into
// UnifiedConstraints. Every legacy entry becomes one item with a
// deterministic ID and global scope; the budget copies through unchanged.
func MigrateConstraints(legacy LegacyConstraints) UnifiedConstraints {
	out := UnifiedConstraints{Budget: legacy.Budget}
	if !out.Budget.IsValid() {
		out.Budget = BudgetNoPreference
	}

	appendAll := func(items []string, targetType TargetType) {
		for _, item := range items {
			c, err := NewUnifiedConstraint(item, targetType, ScopeGlobal, IntentAvoid, SourceManual)
			if err != nil {
				continue // blank entry
			}
			out = out.Add(c)
		}
	}

	appendAll(legacy.AvoidIngredients, TargetIngredient)
	appendAll(legacy.AvoidBrands, TargetBrand)
	appendAll(legacy.AvoidProductForms, TargetFormat)

	for _, custom := range legacy.Custom {
		intent := IntentAvoid
		if ConstraintIntent(custom.Intent).IsValid() {
			intent = ConstraintIntent(custom.Intent)
		}
		c, err := NewUnifiedConstraint(custom.Rule, TargetRule, ScopeGlobal, intent, SourceManual)
		if err != nil {
			continue
		}
		out = out.Add(c)
	}

	return out
}
