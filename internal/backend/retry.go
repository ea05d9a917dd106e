package backend

import (
	"context"
	"time"
)

// DefaultBackoff is the fixed pause before the single retry of a transient failure.
const DefaultBackoff = 500 * time.Millisecond

// retryOnce runs fn and, if it failed transiently, runs it exactly once more
// after backoff.
func retryOnce(ctx context.Context, backoff time.Duration, fn func(context.Context) (string, error)) (string, error) {
	text, err := fn(ctx)
	if err == nil || !IsTransient(err) {
		return text, err
	}
	if backoff > 0 {
		select {
		case <-ctx.Done():
			return "", err
		case <-time.After(backoff):
		}
	}
	return fn(ctx)
}
