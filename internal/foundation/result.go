// Package foundation provides small generic value types shared across the
// codebase: Option for absent values and Result for explicit success/failure.
package foundation

import "fmt"

// Result represents an operation that either succeeded with a value of type T
// or failed with an error. Task helpers return Result so callers that need to
// branch on the failure keep the error value instead of a bare presence check.
type Result[T any] struct {
	value T
	err   error
}

// Ok creates a successful Result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err creates a failed Result.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the Result holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// IsErr reports whether the Result holds an error.
func (r Result[T]) IsErr() bool { return r.err != nil }

// Unwrap returns the value, panicking on a failed Result.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic(fmt.Sprintf("called Unwrap on Err result: %v", r.err))
	}
	return r.value
}

// UnwrapOr returns the value if successful, otherwise the fallback.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Error returns the error, nil for a successful Result.
func (r Result[T]) Error() error { return r.err }

// Match invokes onOk with the value on success, onErr with the error on failure.
func (r Result[T]) Match(onOk func(T), onErr func(error)) {
	if r.err != nil {
		onErr(r.err)
	} else {
		onOk(r.value)
	}
}

// ToTuple converts the Result to the conventional (value, error) pair.
func (r Result[T]) ToTuple() (T, error) {
	return r.value, r.err
}

// FromTuple builds a Result from a conventional (value, error) pair.
func FromTuple[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}
