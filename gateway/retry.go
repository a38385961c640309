package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var errRetryableStatus = errors.New("agent returned a retryable status")

type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(status int) bool
}

// DefaultRetryPolicy retries only Bad Gateway, three attempts in total,
// waiting 2s then 4s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Retryable:   func(status int) bool { return status == http.StatusBadGateway },
	}
}

func (p RetryPolicy) retryable(status int) bool {
	if p.Retryable == nil {
		return false
	}
	return p.Retryable(status)
}

// backOff waits BaseDelay * 2^i before attempt i+1, without jitter.
func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	attempts := max(p.MaxAttempts, 1)

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = p.BaseDelay << attempts
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)
}
