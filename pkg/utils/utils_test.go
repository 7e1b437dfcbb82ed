package utils_test

import (
	"errors"
	"testing"
	"time"

	"github.com/wyfcoding/stocktracking/pkg/utils"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := utils.Retry(5, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestRetryReturnsLastError(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	err := utils.Retry(3, time.Millisecond, func() error {
		attempts++
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestRetryWithBackoffStopsOnSuccess(t *testing.T) {
	attempts := 0
	err := utils.RetryWithBackoff(5, time.Millisecond, 10*time.Millisecond, func() error {
		attempts++
		if attempts < 2 {
			return errors.New("not yet")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("RetryWithBackoff: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestRetryWithBackoffExhaustsAttempts(t *testing.T) {
	boom := errors.New("still down")
	attempts := 0
	err := utils.RetryWithBackoff(4, time.Millisecond, 2*time.Millisecond, func() error {
		attempts++
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if attempts != 4 {
		t.Fatalf("attempts = %d, want 4", attempts)
	}
}
