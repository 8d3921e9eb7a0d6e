package dispatch

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Retry calls op until it succeeds, fails with an error retryable rejects,
// or has been called attempts times. attempts <= 0 means no limit. Retries
// happen immediately, without sleeping.
//
// When the last error is still retryable the attempts ran out.
func Retry[T any](attempts int, retryable func(error) bool, op func() (T, error)) (T, error) {
	for n := 1; ; n++ {
		v, err := op()
		if err == nil || !retryable(err) {
			return v, err
		}
		if attempts > 0 && n >= attempts {
			return v, err
		}
	}
}

// isTransient reports whether err means the system is temporarily out of
// resources.
func isTransient(err error) bool {
	return errors.Is(err, unix.EAGAIN)
}

// isInterrupted reports whether err means a signal interrupted the call.
func isInterrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}
