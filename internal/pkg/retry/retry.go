package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/asemenkov/ecomm-backend/internal/config"
)

// Do runs fn until it succeeds, the attempts run out, or ctx is done. The
// delay doubles per attempt with jitter, capped at Max. Used for startup
// dials (postgres, rabbit).
//
// The policy is sanitized on entry, matching the warnings config.validate
// logs: non-positive Attempts still run fn once, and a Max below Base is
// raised to Base.
func Do(ctx context.Context, policy config.Retry, fn func() error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	maxDelay := policy.Max
	if maxDelay < policy.Base {
		maxDelay = policy.Base
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	delay := policy.Base
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			return err
		}

		wait := delay
		if policy.JitterFactor > 0 {
			wait = time.Duration(float64(wait) * (1 + policy.JitterFactor*(2*rng.Float64()-1)))
		}
		if wait > maxDelay {
			wait = maxDelay
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}

		if delay < maxDelay {
			delay *= 2
		}
	}
}
