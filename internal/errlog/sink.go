// Package errlog provides the bounded in-memory error log sink. Every failure
// classified by the error layer lands here, capped at a fixed entry count with
// oldest-first eviction, and is mirrored to slog.
package errlog

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/manualbox/internal/errors"
	"git.home.luguber.info/inful/manualbox/internal/logfields"
)

// DefaultCapacity bounds the number of retained entries.
const DefaultCapacity = 1000

// Entry is one recorded failure.
type Entry struct {
	Timestamp time.Time            `json:"timestamp"`
	Context   string               `json:"context"`
	Message   string               `json:"message"`
	Severity  errors.ErrorSeverity `json:"severity"`
	Category  errors.ErrorCategory `json:"category"`
}

// Sink is an append-only, bounded error log. All methods are safe for
// concurrent use; writes are serialized so entry order reflects call order.
type Sink struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
	logger   *slog.Logger
}

// NewSink creates a sink with the given capacity; capacity <= 0 selects
// DefaultCapacity.
func NewSink(capacity int, logger *slog.Logger) *Sink {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{capacity: capacity, logger: logger}
}

// Log records a failure with its context and severity. The oldest entry is
// evicted once the capacity is reached.
func (s *Sink) Log(err error, context string, severity errors.ErrorSeverity) {
	if err == nil {
		return
	}

	entry := Entry{
		Timestamp: time.Now(),
		Context:   context,
		Message:   err.Error(),
		Severity:  severity,
		Category:  errors.GetCategory(err),
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.capacity {
		s.entries = s.entries[len(s.entries)-s.capacity:]
	}
	s.mu.Unlock()

	attrs := []any{
		logfields.Context(context),
		logfields.Category(string(entry.Category)),
		logfields.Error(err),
	}
	switch severity {
	case errors.SeverityFatal, errors.SeverityError:
		s.logger.Error("operation failed", attrs...)
	case errors.SeverityWarning:
		s.logger.Warn("operation degraded", attrs...)
	default:
		s.logger.Info("operation note", attrs...)
	}
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Sink) Recent(limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Entry, limit)
	for i := 0; i < limit; i++ {
		out[i] = s.entries[n-1-i]
	}
	return out
}

// Len returns the current entry count.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear removes all entries.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Export renders all entries, oldest first, as a line-oriented text dump
// suitable for attaching to a support request.
func (s *Sink) Export() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, e := range s.entries {
		fmt.Fprintf(&b, "%s [%s] %s (%s): %s\n",
			e.Timestamp.Format(time.RFC3339), e.Severity, e.Category, e.Context, e.Message)
	}
	return b.String()
}
