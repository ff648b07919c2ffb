package domain

// Source identifies where a preference or constraint value came from.
type Source string

const (
	SourceForm    Source = "form"
	SourceChatbot Source = "chatbot"
	SourceManual  Source = "manual"
)

func (s Source) String() string { return string(s) }

func (s Source) IsValid() bool {
	switch s {
	case SourceForm, SourceChatbot, SourceManual:
		return true
	}
	return false
}

// Sentiment expresses whether a preference value is liked or disliked.
type Sentiment string

const (
	SentimentLike    Sentiment = "like"
	SentimentDislike Sentiment = "dislike"
)

func (s Sentiment) String() string { return string(s) }

func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentLike, SentimentDislike:
		return true
	}
	return false
}

// CanonicalField names one of the six fixed preference slots.
type CanonicalField string

const (
	FieldSkinType         CanonicalField = "skin_type"
	FieldHairType         CanonicalField = "hair_type"
	FieldFoodPreferences  CanonicalField = "food_preferences"
	FieldLifestyle        CanonicalField = "lifestyle"
	FieldGenrePreferences CanonicalField = "genre_preferences"
	FieldGoals            CanonicalField = "goals"
)

// CanonicalFields lists all six slots in document order.
var CanonicalFields = [...]CanonicalField{
	FieldSkinType,
	FieldHairType,
	FieldFoodPreferences,
	FieldLifestyle,
	FieldGenrePreferences,
	FieldGoals,
}

func (f CanonicalField) String() string { return string(f) }

func (f CanonicalField) IsValid() bool {
	switch f {
	case FieldSkinType, FieldHairType, FieldFoodPreferences,
		FieldLifestyle, FieldGenrePreferences, FieldGoals:
		return true
	}
	return false
}

// TargetType classifies what a constraint excludes.
type TargetType string

const (
	TargetIngredient TargetType = "ingredient"
	TargetBrand      TargetType = "brand"
	TargetGenre      TargetType = "genre"
	TargetFoodType   TargetType = "food_type"
	TargetFormat     TargetType = "format"
	TargetRule       TargetType = "rule"
)

func (t TargetType) String() string { return string(t) }

func (t TargetType) IsValid() bool {
	switch t {
	case TargetIngredient, TargetBrand, TargetGenre, TargetFoodType, TargetFormat, TargetRule:
		return true
	}
	return false
}

// ConstraintScope names the life domain a constraint applies to.
type ConstraintScope string

const (
	ScopeGlobal        ConstraintScope = "global"
	ScopeSkincare      ConstraintScope = "skincare"
	ScopeHaircare      ConstraintScope = "haircare"
	ScopeFood          ConstraintScope = "food"
	ScopeEntertainment ConstraintScope = "entertainment"
	ScopeSupplements   ConstraintScope = "supplements"
)

func (s ConstraintScope) String() string { return string(s) }

func (s ConstraintScope) IsValid() bool {
	switch s {
	case ScopeGlobal, ScopeSkincare, ScopeHaircare, ScopeFood, ScopeEntertainment, ScopeSupplements:
		return true
	}
	return false
}

// ConstraintIntent distinguishes a soft avoid from a strict exclusion.
type ConstraintIntent string

const (
	IntentAvoid         ConstraintIntent = "avoid"
	IntentStrictlyAvoid ConstraintIntent = "strictly_avoid"
)

func (i ConstraintIntent) String() string { return string(i) }

func (i ConstraintIntent) IsValid() bool {
	switch i {
	case IntentAvoid, IntentStrictlyAvoid:
		return true
	}
	return false
}

// Budget is the user's spending band for recommendations.
type Budget string

const (
	BudgetNoPreference Budget = "no_preference"
	BudgetAffordable   Budget = "affordable"
	BudgetMidRange     Budget = "mid-range"
	BudgetPremium      Budget = "premium"
)

func (b Budget) String() string { return string(b) }

func (b Budget) IsValid() bool {
	switch b {
	case BudgetNoPreference, BudgetAffordable, BudgetMidRange, BudgetPremium:
		return true
	}
	return false
}
