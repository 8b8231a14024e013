// Package retry repeats flaky operations with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// Timeout bounds each attempt, not the whole operation.
	Timeout time.Duration
}

// Sheets is the policy for fetching a sheet.
var Sheets = Config{
	MaxRetries: 3,
	BaseDelay:  500 * time.Millisecond,
	MaxDelay:   10 * time.Second,
	Timeout:    15 * time.Second,
}

func WithRetry[T any](ctx context.Context, config Config, operation func(context.Context) (T, error)) (T, error) {
	var zero T
	var err error
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		opCtx, cancel := context.WithTimeout(ctx, config.Timeout)
		var result T
		result, err = operation(opCtx)
		cancel()
		if err == nil {
			return result, nil
		}

		log.Debug().
			Err(err).
			Int("attempt", attempt+1).
			Msg("Operation failed")

		if attempt < config.MaxRetries {
			delay := backoff(attempt, config.BaseDelay, config.MaxDelay)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return zero, fmt.Errorf("operation failed after %d attempts: %w", config.MaxRetries+1, err)
}

// backoff doubles the base delay per attempt, with jitter between 0.5x and
// 1.5x, never exceeding maxDelay.
func backoff(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	if attempt > 30 {
		attempt = 30
	}
	delay := time.Duration(1<<attempt) * baseDelay
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}

	delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}
