package client

import (
	"context"
	"time"
)

type outcome int

const (
	outcomeOK outcome = iota
	outcomeTransient
	outcomeFatal
)

// retrier runs a call up to attempts times with a fixed delay between
// attempts that failed with a transient error.
type retrier struct {
	attempts int
	delay    time.Duration
	policy   func(error) bool
	logger   RequestLogger
	sleep    func(ctx context.Context, d time.Duration) error
}

func newRetrier(o *Options) *retrier {
	return &retrier{
		attempts: o.retryCount,
		delay:    o.retryWaitTime,
		policy:   o.transientPolicy,
		logger:   o.requestLogger,
		sleep:    sleepContext,
	}
}

// classify treats every failure as fatal once ctx has ended, so only the
// per-attempt timeout of the session reaches the policy as a timeout.
func (r *retrier) classify(ctx context.Context, err error) outcome {
	switch {
	case err == nil:
		return outcomeOK
	case ctx.Err() != nil:
		return outcomeFatal
	case r.policy(err):
		return outcomeTransient
	default:
		return outcomeFatal
	}
}

// do returns the first successful response, the first fatal error, or the
// error of the last attempt once the budget is spent. The number of attempts
// made is always returned.
func (r *retrier) do(ctx context.Context, call func(context.Context) (*SessionResponse, error)) (*SessionResponse, int, error) {
	var lastErr error

	for attempt := 1; attempt <= r.attempts; attempt++ {
		resp, err := call(ctx)

		switch r.classify(ctx, err) {
		case outcomeOK:
			return resp, attempt, nil
		case outcomeFatal:
			return nil, attempt, err
		case outcomeTransient:
			lastErr = err
		}

		if attempt == r.attempts {
			break
		}

		r.logger.Infof("Retrying %d because of %v", attempt, err)

		if err := r.sleep(ctx, r.delay); err != nil {
			return nil, attempt, err
		}
	}

	return nil, r.attempts, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
