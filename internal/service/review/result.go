package review

import "github.com/kindra-app/kindra-backend/internal/domain"

// Result describes the outcome of resolving one learned candidate.
type Result struct {
	Item domain.LearnedPreference

	// AlreadyProcessed is set when the candidate had been resolved the same
	// way before; the call changed nothing.
	AlreadyProcessed bool

	// LowConfidence flags an approval of a candidate below the configured
	// confidence threshold. The approval still goes through.
	LowConfidence bool
}
