// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/telekom/geotrace/internal/logger"
)

// RetryConfig configures how often and how fast a failed call is repeated.
type RetryConfig struct {
	// Count is the number of retries after the first attempt.
	Count int `json:"count" yaml:"count" mapstructure:"count"`
	// Delay is the wait time before the first retry, it doubles with every retry.
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// Effector is the function called by [Retry].
type Effector[T any] func(context.Context) (T, error)

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that [Retry] returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry returns a function that calls the effector until it succeeds,
// fails permanently or the retries are exhausted. The delay between
// two calls grows exponentially.
func Retry[T any](effector Effector[T], rc RetryConfig) Effector[T] {
	return func(ctx context.Context) (T, error) {
		log := logger.FromContext(ctx)
		for r := 1; ; r++ {
			res, err := effector(ctx)
			var perm *permanentError
			if errors.As(err, &perm) {
				return res, perm.err
			}
			if err == nil || r > rc.Count {
				return res, err
			}

			delay := getExpBackoff(rc.Delay, r)
			log.WarnContext(ctx, fmt.Sprintf("Effector call failed, retrying in %v", delay), "attempt", r, "error", err)

			select {
			case <-ctx.Done():
				var zero T
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
}

// calculate the exponential delay for a given iteration
// first iteration is 1
func getExpBackoff(initialDelay time.Duration, iteration int) time.Duration {
	if iteration <= 1 {
		return initialDelay
	}
	return time.Duration(math.Pow(2, float64(iteration-1))) * initialDelay
}
