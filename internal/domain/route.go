package domain

import (
	"strings"
)

// scopeToField maps extraction scopes to canonical preference slots.
// Entertainment scopes are deliberately absent: movie/book/music taste is
// stored under custom categories keyed by the scope itself, while
// genre_preferences is only filled through explicit genre scopes.
var scopeToField = map[string]CanonicalField{
	"skincare":  FieldSkinType,
	"skin":      FieldSkinType,
	"skin_type": FieldSkinType,
	"haircare":  FieldHairType,
	"hair":      FieldHairType,
	"hair_type": FieldHairType,
	"food":      FieldFoodPreferences,
	"diet":      FieldFoodPreferences,
	"dietary":   FieldFoodPreferences,
	"nutrition": FieldFoodPreferences,
	"lifestyle": FieldLifestyle,
	"wellness":  FieldLifestyle,
	"habits":    FieldLifestyle,
	"genre":     FieldGenrePreferences,
	"genres":    FieldGenrePreferences,
	"goals":     FieldGoals,
	"goal":      FieldGoals,
}

// RouteScope resolves an extraction scope to a canonical slot. The second
// return is false when the scope has no canonical match and the value should
// be stored under custom_categories[scope].
func RouteScope(scope string) (CanonicalField, bool) {
	field, ok := scopeToField[NormalizeValue(scope)]
	return field, ok
}

var scopeToConstraintScope = map[string]ConstraintScope{
	"skincare":      ScopeSkincare,
	"skin":          ScopeSkincare,
	"haircare":      ScopeHaircare,
	"hair":          ScopeHaircare,
	"food":          ScopeFood,
	"diet":          ScopeFood,
	"dietary":       ScopeFood,
	"nutrition":     ScopeFood,
	"entertainment": ScopeEntertainment,
	"movies":        ScopeEntertainment,
	"music":         ScopeEntertainment,
	"books":         ScopeEntertainment,
	"genres":        ScopeEntertainment,
	"supplements":   ScopeSupplements,
	"vitamins":      ScopeSupplements,
}

// ScopeToConstraintScope resolves an extraction scope to a constraint scope,
// defaulting to global for anything unrecognized.
func ScopeToConstraintScope(scope string) ConstraintScope {
	if cs, ok := scopeToConstraintScope[NormalizeValue(scope)]; ok {
		return cs
	}
	return ScopeGlobal
}

// RuleToTargetType maps a free-text rule hint to a constraint target type by
// substring, defaulting to the generic rule type.
func RuleToTargetType(rule string) TargetType {
	rule = NormalizeValue(rule)
	switch {
	case strings.Contains(rule, "ingredient"):
		return TargetIngredient
	case strings.Contains(rule, "brand"):
		return TargetBrand
	case strings.Contains(rule, "genre"):
		return TargetGenre
	case strings.Contains(rule, "food"), strings.Contains(rule, "cuisine"):
		return TargetFoodType
	case strings.Contains(rule, "format"), strings.Contains(rule, "form"):
		return TargetFormat
	}
	return TargetRule
}
