package shared

import "strings"

// FieldError is one structural validation failure: which field, and why.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult accumulates the structural validation outcome of a
// command. Order of insertion is preserved so callers can report "first
// error" or "all errors" deterministically.
type ValidationResult struct {
	errors []FieldError
}

// NewValidationResult returns an empty (valid) result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{}
}

// AddError appends one field/message pair.
func (v *ValidationResult) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// Merge appends every error of other, keeping order.
func (v *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	v.errors = append(v.errors, other.errors...)
}

// IsValid reports whether no errors were recorded.
func (v *ValidationResult) IsValid() bool {
	return v == nil || len(v.errors) == 0
}

// Errors returns a copy of the recorded errors in insertion order.
func (v *ValidationResult) Errors() []FieldError {
	if v == nil {
		return nil
	}
	out := make([]FieldError, len(v.errors))
	copy(out, v.errors)
	return out
}

// Messages returns just the message texts, in insertion order.
func (v *ValidationResult) Messages() []string {
	if v == nil {
		return nil
	}
	msgs := make([]string, len(v.errors))
	for i, e := range v.errors {
		msgs[i] = e.Message
	}
	return msgs
}

// RequireNonEmpty records an error when value is blank after trimming.
// Returns the trimmed value either way so callers can normalize in one step.
func (v *ValidationResult) RequireNonEmpty(field, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		v.AddError(field, field+" is required")
	}
	return trimmed
}
