package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/foxseedlab/assist/internal/discord"
)

const maxPlatformRetries = 3

// RetryPolicy builds a fresh backoff for one platform call.
type RetryPolicy func() backoff.BackOff

func DefaultRetryPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Second
	return backoff.WithMaxRetries(b, maxPlatformRetries)
}

// retrier runs idempotent platform calls (edit, delete, rename, pin).
// Sends and thread creation are never passed through it.
type retrier struct {
	policy RetryPolicy
}

func (r retrier) do(ctx context.Context, op string, call func(ctx context.Context) error) error {
	policy := r.policy
	if policy == nil {
		policy = DefaultRetryPolicy
	}
	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		err := call(ctx)
		if errors.Is(err, discord.ErrNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(policy(), ctx), func(err error, wait time.Duration) {
		slog.Warn("platform call failed; retrying", "op", op, "attempt", attempt, "wait", wait, "error", err)
	})
	if err != nil {
		return platformError(op, err)
	}
	return nil
}

func platformError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPlatformRequest, op, err)
}

// ignoreNotFound treats an entity that is already gone as deleted.
func ignoreNotFound(err error) error {
	if errors.Is(err, discord.ErrNotFound) {
		return nil
	}
	return err
}
