package deal

import "fmt"

// ValidationError is a blocking structural violation of the input contract.
// A deal with any validation errors never reaches the calculators.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationWarning flags a commercially atypical value. Warnings do not
// block a run; they are surfaced alongside the result.
type ValidationWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of validating one input record.
type ValidationResult struct {
	IsValid  bool                `json:"isValid"`
	Errors   []ValidationError   `json:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty"`
}

// AddError appends a blocking error and marks the result invalid.
func (r *ValidationResult) AddError(field, format string, args ...interface{}) {
	r.IsValid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// AddWarning appends a non-blocking warning.
func (r *ValidationResult) AddWarning(field, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, ValidationWarning{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ComputationError marks a single metric that could not be computed. The
// remainder of the result is unaffected and still returned.
type ComputationError struct {
	Metric string `json:"metric"`
	Reason string `json:"reason"`
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("could not compute %s: %s", e.Metric, e.Reason)
}
