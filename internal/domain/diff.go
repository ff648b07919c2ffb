package domain

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Diff counts the normalized values present in one document but not the
// other, across all canonical and custom categories.
type Diff struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// None reports whether the draft matches the committed document.
func (d Diff) None() bool { return d.Added == 0 && d.Removed == 0 }

var compareOpts = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmpopts.SortSlices(func(a, b PreferenceValue) bool {
		return a.NormalizedValue < b.NormalizedValue
	}),
	cmpopts.SortSlices(func(a, b UnifiedConstraint) bool {
		return a.ID < b.ID
	}),
}

// PreferencesEqual is deep structural equality over two documents, ignoring
// value order within categories and constraint order within the item list.
func PreferencesEqual(a, b UserPreferences) bool {
	return cmp.Equal(a, b, compareOpts...)
}

// categoryKey identifies one value across the whole document.
type categoryKey struct {
	category   string
	normalized string
}

func valueSet(p UserPreferences) map[categoryKey]struct{} {
	out := make(map[categoryKey]struct{})
	for _, field := range CanonicalFields {
		for _, v := range p.Category(field).Values {
			out[categoryKey{string(field), v.NormalizedValue}] = struct{}{}
		}
	}
	for name, cat := range p.CustomCategories {
		for _, v := range cat.Values {
			out[categoryKey{name, v.NormalizedValue}] = struct{}{}
		}
	}
	return out
}

// DiffPreferences reports how many normalized values the draft adds and
// removes relative to the committed document.
func DiffPreferences(committed, draft UserPreferences) Diff {
	before := valueSet(committed)
	after := valueSet(draft)

	var d Diff
	for key := range after {
		if _, ok := before[key]; !ok {
			d.Added++
		}
	}
	for key := range before {
		if _, ok := after[key]; !ok {
			d.Removed++
		}
	}
	return d
}

// IsPendingRemoval reports whether the value exists in the committed
// document but not in the draft for the given field (canonical name or
// custom category key). The UI uses this to strike out a value before the
// draft is committed.
func IsPendingRemoval(committed, draft UserPreferences, field, normalized string) bool {
	before, _ := committed.CategoryByKey(field)
	after, _ := draft.CategoryByKey(field)
	return before.Has(normalized) && !after.Has(normalized)
}
