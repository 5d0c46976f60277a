package database

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
)

// RetryPolicy controls startup connection attempts.
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultRetryPolicy backs off from 500ms up to 8s over five attempts.
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, Delay: 500 * time.Millisecond, MaxDelay: 8 * time.Second}

func withRetry[T any](ctx context.Context, name string, p RetryPolicy, connect func(ctx context.Context) (T, error)) (T, error) {
	return retry.DoWithData(func() (T, error) {
		return connect(ctx)
	},
		retry.Context(ctx),
		retry.Attempts(p.Attempts),
		retry.Delay(p.Delay),
		retry.MaxDelay(p.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			logger.Warnf("%s connect attempt %d/%d failed: %v", name, attempt+1, p.Attempts, err)
		}),
	)
}
