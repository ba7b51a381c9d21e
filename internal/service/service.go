// Package service holds the business operations behind the HTTP API. Services
// validate requests, enforce rules the store does not know about, and log
// mutating events.
package service

import "log/slog"

// componentLogger tags l with the service name, or discards output when l is nil.
func componentLogger(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.With("component", name)
}
