// Package logattr provides slog attribute helpers shared by the library and the
// CLI. Helpers return an empty Attr for zero inputs so callers can pass them
// unconditionally.
package logattr

import (
	"log/slog"
	"time"
)

// Path creates an attribute for a file path under key.
func Path(key, path string) slog.Attr {
	if path == "" {
		return slog.Attr{}
	}
	return slog.String(key, path)
}

// Keys creates an attribute listing binding keys. Returns empty Attr for an
// empty list.
func Keys(keys []string) slog.Attr {
	if len(keys) == 0 {
		return slog.Attr{}
	}
	return slog.Any("keys", keys)
}

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Elapsed calculates the duration since start.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// Count creates an integer attribute under key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}
