package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type netError struct {
	timeout   bool
	temporary bool
}

func (e netError) Error() string   { return "net error" }
func (e netError) Timeout() bool   { return e.timeout }
func (e netError) Temporary() bool { return e.temporary }

type flakyError struct{}

func (flakyError) Error() string   { return "try again" }
func (flakyError) Temporary() bool { return true }

func TestDo_RetriesUntilAttemptsRunOut(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 3}, IsRetryable, func() error {
		attempts++
		return netError{timeout: true}
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestDo_StopsOnNonRetryable(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 3}, IsRetryable, func() error {
		attempts++
		return errors.New("bad request")
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestDo_SucceedsAfterRetry(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 3}, IsRetryable, func() error {
		attempts++
		if attempts == 1 {
			return flakyError{}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestDo_CustomPredicate(t *testing.T) {
	sentinel := errors.New("rate limited")
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 5}, func(err error) bool {
		return errors.Is(err, sentinel)
	}, func() error {
		attempts++
		if attempts < 4 {
			return fmt.Errorf("list zones: %w", sentinel)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 4 {
		t.Fatalf("attempts = %d, want 4", attempts)
	}
}

func TestDo_OnRetryCalledBetweenAttempts(t *testing.T) {
	var seen []int
	cfg := Config{
		MaxAttempts: 3,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			seen = append(seen, attempt)
			if delay != 0 {
				t.Errorf("delay = %v, want 0 with no base delay", delay)
			}
		},
	}

	_ = Do(context.Background(), cfg, nil, func() error {
		return netError{timeout: true}
	})

	if diff := cmp.Diff([]int{1, 2}, seen); diff != "" {
		t.Errorf("OnRetry attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(ctx, Config{MaxAttempts: 3}, IsRetryable, func() error {
		attempts++
		return netError{timeout: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if attempts != 0 {
		t.Fatalf("attempts = %d, want 0", attempts)
	}
}

func TestDo_CanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}

	attempts := 0
	err := Do(ctx, cfg, IsRetryable, func() error {
		attempts++
		cancel()
		return netError{timeout: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"unexpected eof", fmt.Errorf("read body: %w", io.ErrUnexpectedEOF), true},
		{"net timeout", netError{timeout: true}, true},
		{"net not timeout", netError{}, false},
		{"temporary", flakyError{}, true},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	if delay := backoffDelay(0, time.Second, 1); delay != 0 {
		t.Fatalf("zero base: delay = %v, want 0", delay)
	}

	for attempt := 1; attempt <= 10; attempt++ {
		delay := backoffDelay(100*time.Millisecond, time.Second, attempt)
		if delay < 0 || delay > time.Second {
			t.Fatalf("attempt %d: delay %v outside [0, 1s]", attempt, delay)
		}
	}
}
