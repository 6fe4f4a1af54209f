package indexer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/caseflow/searchd/internal/domain"
)

func TestRetryBackoffSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := retryBackoff(context.Background(), func() error {
		calls++
		return nil
	}, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("retryBackoff() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestRetryBackoffRetriesRateLimit(t *testing.T) {
	calls := 0
	err := retryBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("provider: %w", domain.ErrRateLimited)
		}
		return nil
	}, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("retryBackoff() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestRetryBackoffExhausted(t *testing.T) {
	calls := 0
	err := retryBackoff(context.Background(), func() error {
		calls++
		return domain.ErrRateLimited
	}, 3, time.Millisecond)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("retryBackoff() error = %v, want ErrRateLimited", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestRetryBackoffPermanentErrorNotRetried(t *testing.T) {
	permanent := errors.New("model not found")
	calls := 0
	err := retryBackoff(context.Background(), func() error {
		calls++
		return permanent
	}, 3, time.Millisecond)
	if !errors.Is(err, permanent) {
		t.Fatalf("retryBackoff() error = %v, want permanent error", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestRetryBackoffCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retryBackoff(ctx, func() error {
		calls++
		cancel()
		return domain.ErrRateLimited
	}, 3, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("retryBackoff() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}
