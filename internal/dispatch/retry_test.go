package dispatch

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		failures  int   // calls that fail before success
		err       error // error returned by failing calls
		wantCalls int
		wantErr   error
	}{
		{"succeeds first time", 5, 0, unix.EAGAIN, 1, nil},
		{"retries transient errors", 5, 3, unix.EAGAIN, 4, nil},
		{"gives up at the ceiling", 5, 100, unix.EAGAIN, 5, unix.EAGAIN},
		{"stops on other errors", 5, 3, unix.ENOENT, 1, unix.ENOENT},
		{"unbounded with zero attempts", 0, 500, unix.EAGAIN, 501, nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			calls := 0
			v, err := Retry(test.attempts, isTransient, func() (int, error) {
				calls++
				if calls <= test.failures {
					return 0, test.err
				}
				return 7, nil
			})

			if calls != test.wantCalls {
				t.Errorf("Expected %d calls, got %d", test.wantCalls, calls)
			}
			if !errors.Is(err, test.wantErr) {
				t.Errorf("Expected error %v, got %v", test.wantErr, err)
			}
			if err == nil && v != 7 {
				t.Errorf("Expected value 7, got %d", v)
			}
		})
	}
}

func TestRetryInterrupted(t *testing.T) {
	calls := 0
	_, err := Retry(0, isInterrupted, func() (struct{}, error) {
		calls++
		if calls < 3 {
			return struct{}{}, unix.EINTR
		}
		return struct{}{}, unix.ECHILD
	})
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, unix.ECHILD) {
		t.Errorf("Expected ECHILD, got %v", err)
	}
}
