package review

import (
	"strings"

	"github.com/kindra-app/kindra-backend/internal/domain"
)

// ResolveInput identifies one learned candidate for approval or dismissal.
// Value, Confidence, and Evidence are optional client echoes of what the
// review UI displayed; when set they override the stored candidate on
// approval. Dismissal ignores them.
type ResolveInput struct {
	Scope      string
	Key        string
	Value      string
	Confidence *float64
	Evidence   *string
}

// Validate checks all fields and collects all errors.
func (i ResolveInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.Scope) == "" {
		errs = append(errs, domain.FieldError{Field: "scope", Message: "required"})
	}
	if strings.TrimSpace(i.Key) == "" {
		errs = append(errs, domain.FieldError{Field: "key", Message: "required"})
	}
	if i.Confidence != nil && (*i.Confidence < 0 || *i.Confidence > 1) {
		errs = append(errs, domain.FieldError{Field: "confidence", Message: "must be within [0,1]"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
