package indexer

import (
	"context"
	"errors"
	"time"

	"github.com/caseflow/searchd/internal/domain"
)

// retryBackoff retries op with exponential backoff, but only while the
// failure is a rate limit: provider errors other than domain.ErrRateLimited
// are permanent and returned immediately. The sleep is context-aware, so
// a canceled reindex does not sit out a backoff window.
func retryBackoff(ctx context.Context, op func() error, maxAttempts int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, domain.ErrRateLimited) {
			return lastErr
		}
		if attempt == maxAttempts {
			break
		}

		delay := baseDelay << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
