package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances,
// keeping error construction consistent and discoverable.
type ErrorBuilder struct {
	category ErrorCategory
	reason   string
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ContextFields
}

// NewError creates an ErrorBuilder with the given category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
		context:  make(ContextFields),
	}
}

// WrapError creates an ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithReason sets the sub-reason tag.
func (b *ErrorBuilder) WithReason(reason string) *ErrorBuilder {
	b.reason = reason
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithRetry sets the retry strategy.
func (b *ErrorBuilder) WithRetry(strategy RetryStrategy) *ErrorBuilder {
	b.retry = strategy
	return b
}

// WithCause sets the wrapped cause.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context[key] = value
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder { return b.WithSeverity(SeverityFatal) }

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// Retryable sets the retry strategy to backoff.
func (b *ErrorBuilder) Retryable() *ErrorBuilder { return b.WithRetry(RetryBackoff) }

// UserAction sets the retry strategy to require user action.
func (b *ErrorBuilder) UserAction() *ErrorBuilder { return b.WithRetry(RetryUserAction) }

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		Category: b.category,
		Reason:   b.reason,
		Severity: b.severity,
		Retry:    b.retry,
		Message:  b.message,
		Cause:    b.cause,
		Context:  b.context,
	}
}

// Convenience constructors for common error patterns

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Warning().UserAction()
}

// PersistenceError creates a local persistence error.
func PersistenceError(message string) *ErrorBuilder {
	return NewError(CategoryPersistence, message)
}

// SyncError creates a remote sync error with a narrowing reason.
func SyncError(reason SyncReason, message string) *ErrorBuilder {
	return NewError(CategorySync, message).WithReason(string(reason)).Retryable()
}

// NetworkError creates a network error (typically retryable).
func NetworkError(reason NetworkReason, message string) *ErrorBuilder {
	return NewError(CategoryNetwork, message).WithReason(string(reason)).Retryable()
}

// FileSystemError creates a filesystem error.
func FileSystemError(reason FileSystemReason, message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).WithReason(string(reason))
}

// InternalError creates an unclassified internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message)
}
