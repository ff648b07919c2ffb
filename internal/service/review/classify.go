package review

import (
	"strings"

	"github.com/kindra-app/kindra-backend/internal/domain"
)

// scopeLexicon maps rule keywords to constraint scopes. Checked in order so
// the more specific product words win over generic ones.
var scopeLexicon = []struct {
	keywords []string
	scope    domain.ConstraintScope
}{
	{[]string{"skin", "face", "facial", "serum", "moisturizer", "spf"}, domain.ScopeSkincare},
	{[]string{"hair", "scalp", "shampoo", "conditioner"}, domain.ScopeHaircare},
	{[]string{"food", "eat", "diet", "cuisine", "dairy", "gluten", "meat", "meal"}, domain.ScopeFood},
	{[]string{"movie", "film", "book", "music", "show", "genre", "watch", "read"}, domain.ScopeEntertainment},
	{[]string{"supplement", "vitamin", "capsule", "pill"}, domain.ScopeSupplements},
}

// classifyRule infers a constraint shape from a free-form rule string.
// The confidence reflects how much of the shape the lexicon actually
// recognized: 0.9 when both target type and scope matched, 0.7 for one,
// 0.5 for a fully generic rule.
func classifyRule(rule string) (domain.TargetType, domain.ConstraintScope, float64) {
	normalized := domain.NormalizeValue(rule)

	target := domain.RuleToTargetType(normalized)
	scope := domain.ScopeGlobal
	for _, entry := range scopeLexicon {
		if containsAny(normalized, entry.keywords) {
			scope = entry.scope
			break
		}
	}

	switch {
	case target != domain.TargetRule && scope != domain.ScopeGlobal:
		return target, scope, 0.9
	case target != domain.TargetRule || scope != domain.ScopeGlobal:
		return target, scope, 0.7
	default:
		return target, scope, 0.5
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
