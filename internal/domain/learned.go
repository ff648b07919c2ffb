package domain

import (
	"strings"
	"time"
)

// ConstraintKeyPrefix marks a learned item's key as constraint-shaped.
// Such items are mirrored into UnifiedConstraints on approval instead of a
// preference category.
const ConstraintKeyPrefix = "constraint:"

// LearnedPreference is an externally-sourced candidate awaiting review.
// It is derived on demand from conversation metadata and never persisted by
// the engine itself. The lifecycle is strictly one-way: pending, then exactly
// one of approved or dismissed.
type LearnedPreference struct {
	Scope            string     `json:"scope"`
	Key              string     `json:"key"`
	Value            string     `json:"value"`
	Confidence       float64    `json:"confidence"`
	Evidence         *string    `json:"evidence,omitempty"`
	ExtractedAt      time.Time  `json:"extractedAt"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	Dismissed        bool       `json:"dismissed,omitempty"`
	DismissedAt      *time.Time `json:"dismissedAt,omitempty"`
	ConstraintRule   *string    `json:"constraintRule,omitempty"`
	ConstraintIntent *string    `json:"constraintIntent,omitempty"`
}

// Pending reports whether the item still awaits a review decision.
func (l LearnedPreference) Pending() bool {
	return l.ApprovedAt == nil && !l.Dismissed
}

// IsConstraint reports whether the item's key is constraint-shaped.
func (l LearnedPreference) IsConstraint() bool {
	return strings.HasPrefix(l.Key, ConstraintKeyPrefix)
}

// DetectedPreference is one raw preference candidate from the external
// extraction process.
type DetectedPreference struct {
	Category    string     `json:"category"`
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Confidence  float64    `json:"confidence"`
	Evidence    *string    `json:"evidence,omitempty"`
	ExtractedAt time.Time  `json:"extractedAt"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	Dismissed   bool       `json:"dismissed,omitempty"`
	DismissedAt *time.Time `json:"dismissedAt,omitempty"`
}

// DetectedConstraint is one raw constraint candidate from the external
// extraction process.
type DetectedConstraint struct {
	Category    string     `json:"category"`
	Rule        string     `json:"rule"`
	Value       string     `json:"value"`
	Confidence  float64    `json:"confidence"`
	Evidence    *string    `json:"evidence,omitempty"`
	Intent      *string    `json:"intent,omitempty"`
	ExtractedAt time.Time  `json:"extractedAt"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	Dismissed   bool       `json:"dismissed,omitempty"`
	DismissedAt *time.Time `json:"dismissedAt,omitempty"`
}

// ConversationMetadata is the validated form of the raw document written by
// the conversation extraction process. Untyped JSON is coerced into this
// shape at the ingestion boundary before any engine logic touches it.
type ConversationMetadata struct {
	Scopes              map[string]map[string]string `json:"scopes,omitempty"`
	DetectedConstraints []DetectedConstraint         `json:"detected_constraints,omitempty"`
	DetectedPreferences []DetectedPreference         `json:"detected_preferences,omitempty"`
}

// scopeEntryConfidence is assumed for entries in the free-form scopes map,
// which carry no confidence of their own.
const scopeEntryConfidence = 0.7

// LearnedItems flattens the metadata into LearnedPreference candidates.
// No filtering happens here; the review queue filters against committed
// preferences.
func (m *ConversationMetadata) LearnedItems() []LearnedPreference {
	var out []LearnedPreference

	for _, p := range m.DetectedPreferences {
		out = append(out, LearnedPreference{
			Scope:       p.Category,
			Key:         p.Key,
			Value:       p.Value,
			Confidence:  p.Confidence,
			Evidence:    p.Evidence,
			ExtractedAt: p.ExtractedAt,
			ApprovedAt:  p.ApprovedAt,
			Dismissed:   p.Dismissed,
			DismissedAt: p.DismissedAt,
		})
	}

	for _, c := range m.DetectedConstraints {
		rule := c.Rule
		out = append(out, LearnedPreference{
			Scope:            c.Category,
			Key:              ConstraintKeyPrefix + rule,
			Value:            c.Value,
			Confidence:       c.Confidence,
			Evidence:         c.Evidence,
			ExtractedAt:      c.ExtractedAt,
			ApprovedAt:       c.ApprovedAt,
			Dismissed:        c.Dismissed,
			DismissedAt:      c.DismissedAt,
			ConstraintRule:   &rule,
			ConstraintIntent: c.Intent,
		})
	}

	for scope, entries := range m.Scopes {
		for key, value := range entries {
			out = append(out, LearnedPreference{
				Scope:      scope,
				Key:        key,
				Value:      value,
				Confidence: scopeEntryConfidence,
			})
		}
	}

	return out
}

// FindLearned returns the candidate with the given scope and key.
func (m *ConversationMetadata) FindLearned(scope, key string) (LearnedPreference, bool) {
	for _, item := range m.LearnedItems() {
		if item.Scope == scope && item.Key == key {
			return item, true
		}
	}
	return LearnedPreference{}, false
}

// StampApproval marks the candidate identified by scope and key as approved
// at the given time. Scopes-map entries carry no review fields, so approval
// consumes them instead. Returns false when no such candidate exists.
func (m *ConversationMetadata) StampApproval(scope, key string, at time.Time) bool {
	for i := range m.DetectedPreferences {
		p := &m.DetectedPreferences[i]
		if p.Category == scope && p.Key == key {
			p.ApprovedAt = &at
			return true
		}
	}
	for i := range m.DetectedConstraints {
		c := &m.DetectedConstraints[i]
		if c.Category == scope && ConstraintKeyPrefix+c.Rule == key {
			c.ApprovedAt = &at
			return true
		}
	}
	return m.removeScopeEntry(scope, key)
}

// StampDismissal marks the candidate identified by scope and key as
// dismissed at the given time. Scopes-map entries are removed outright.
// Returns false when no such candidate exists.
func (m *ConversationMetadata) StampDismissal(scope, key string, at time.Time) bool {
	for i := range m.DetectedPreferences {
		p := &m.DetectedPreferences[i]
		if p.Category == scope && p.Key == key {
			p.Dismissed = true
			p.DismissedAt = &at
			return true
		}
	}
	for i := range m.DetectedConstraints {
		c := &m.DetectedConstraints[i]
		if c.Category == scope && ConstraintKeyPrefix+c.Rule == key {
			c.Dismissed = true
			c.DismissedAt = &at
			return true
		}
	}
	return m.removeScopeEntry(scope, key)
}

func (m *ConversationMetadata) removeScopeEntry(scope, key string) bool {
	entries, ok := m.Scopes[scope]
	if !ok {
		return false
	}
	if _, ok := entries[key]; !ok {
		return false
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(m.Scopes, scope)
	}
	if len(m.Scopes) == 0 {
		m.Scopes = nil
	}
	return true
}
