package assembly

import (
	"context"
	"log"
)

// Fetched is the result of a best-effort read: a value, possibly the
// fallback, and a warning when the read failed.
type Fetched[T any] struct {
	Value   T
	Warning *Warning
}

// fetchBestEffort runs fn and converts a failure into a warning carrying the
// fallback value. It never returns an error.
func fetchBestEffort[T any](ctx context.Context, source string, fallback T, fn func(ctx context.Context) (T, error)) Fetched[T] {
	v, err := fn(ctx)
	if err != nil {
		log.Printf("[assembly] Warning: failed to fetch %s: %v", source, err)
		return Fetched[T]{Value: fallback, Warning: &Warning{Source: source, Message: err.Error()}}
	}
	return Fetched[T]{Value: v}
}
