// Package errors provides the structured error type (ClassifiedError) used
// throughout ManualBox for category-based classification, retry semantics,
// and user-facing message generation.
package errors

import (
	"fmt"
	"maps"
)

// ContextFields carries structured context attached to a ClassifiedError.
type ContextFields map[string]any

// ClassifiedError is a structured error with category, sub-reason, severity,
// retry strategy, and context.
type ClassifiedError struct {
	Category ErrorCategory `json:"category"`
	Reason   string        `json:"reason,omitempty"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"-"`
	Retry    RetryStrategy `json:"retry"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	label := string(e.Category)
	if e.Reason != "" {
		label = fmt.Sprintf("%s/%s", e.Category, e.Reason)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", label, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", label, e.Severity, e.Message)
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// WithContext returns the error with an added context key-value pair.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// ContextCopy returns a copy of the context fields, never nil.
func (e *ClassifiedError) ContextCopy() ContextFields {
	out := make(ContextFields, len(e.Context))
	maps.Copy(out, e.Context)
	return out
}

// IsCategory reports whether err is a ClassifiedError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	if ce, ok := err.(*ClassifiedError); ok {
		return ce.Category == category
	}
	return false
}

// IsRetryable reports whether err carries a retry strategy other than never.
func IsRetryable(err error) bool {
	if ce, ok := err.(*ClassifiedError); ok {
		return ce.Retry != RetryNever && ce.Retry != ""
	}
	return false
}

// GetCategory extracts the category from an error, defaulting to internal
// for foreign error types.
func GetCategory(err error) ErrorCategory {
	if ce, ok := err.(*ClassifiedError); ok {
		return ce.Category
	}
	return CategoryInternal
}
