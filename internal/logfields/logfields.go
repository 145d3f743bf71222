// Package logfields centralizes slog attribute constructors so log field
// names stay consistent across packages.
package logfields

import "log/slog"

func EntityID(id string) slog.Attr  { return slog.String("entity_id", id) }
func EntityType(t string) slog.Attr { return slog.String("entity_type", t) }
func Screen(name string) slog.Attr  { return slog.String("screen", name) }
func EventType(t string) slog.Attr  { return slog.String("event_type", t) }
func EventID(id string) slog.Attr   { return slog.String("event_id", id) }
func Context(c string) slog.Attr    { return slog.String("context", c) }
func Category(c string) slog.Attr   { return slog.String("category", c) }
func Severity(s string) slog.Attr   { return slog.String("severity", s) }
func Action(name string) slog.Attr  { return slog.String("action", name) }
func Error(err error) slog.Attr     { return slog.Any("error", err) }
func Count(n int) slog.Attr         { return slog.Int("count", n) }
func Subject(s string) slog.Attr    { return slog.String("subject", s) }
