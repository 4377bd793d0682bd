// Package retry runs an action a bounded number of times with a linearly
// growing pause between tries.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultAttempts = 3
	DefaultDelay    = 300 * time.Millisecond
)

// Policy configures Do. After failed try k the wait is Delay*k.
type Policy struct {
	Attempts int
	Delay    time.Duration

	// OnRetry, when set, is called before each wait with the 1-based number of
	// the try that just failed.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy returns three tries with a 300ms step.
func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Delay: DefaultDelay}
}

// linear is a backoff.BackOff yielding step, 2*step, 3*step, ...
type linear struct {
	step time.Duration
	n    int
}

func (l *linear) NextBackOff() time.Duration {
	l.n++
	return l.step * time.Duration(l.n)
}

func (l *linear) Reset() { l.n = 0 }

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Delay
	if delay < 0 {
		delay = 0
	}
	b := backoff.WithMaxRetries(&linear{step: delay}, uint64(attempts-1))
	return backoff.WithContext(b, ctx)
}

func (p Policy) notify() backoff.Notify {
	if p.OnRetry == nil {
		return nil
	}
	attempt := 0
	return func(err error, wait time.Duration) {
		attempt++
		p.OnRetry(attempt, err, wait)
	}
}

// Do calls action until it succeeds or the policy's tries are used up, and
// returns the error of the final try as is. A cancelled ctx stops the wait and
// returns ctx.Err().
func Do(ctx context.Context, p Policy, action func(ctx context.Context) error) error {
	return backoff.RetryNotify(func() error {
		return action(ctx)
	}, p.backOff(ctx), p.notify())
}

// Value is Do for actions that produce a result.
func Value[T any](ctx context.Context, p Policy, action func(ctx context.Context) (T, error)) (T, error) {
	return backoff.RetryNotifyWithData(func() (T, error) {
		return action(ctx)
	}, p.backOff(ctx), p.notify())
}
