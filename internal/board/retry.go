package board

import (
	"context"
	"fmt"
	"time"
)

var defaultBackoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// retryWithBackoff runs fn until it succeeds, the attempts run out, or ctx
// is done. Only idempotent calls belong here.
func retryWithBackoff(ctx context.Context, backoffs []time.Duration, maxRetries int, fn func() error) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if i == maxRetries-1 || i >= len(backoffs) {
			continue
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", lastErr)
		case <-time.After(backoffs[i]):
		}
	}
	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
