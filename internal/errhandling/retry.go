// Retry configuration and execution with exponential backoff.
package errhandling

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/birdlab-tech/building-analytics/internal/logger"
)

// Default retry configuration values.
const (
	DefaultMaxAttempts       = 3
	DefaultDelayMs           = 1000
	DefaultBackoffMultiplier = 2.0
	DefaultMaxDelayMs        = 30000
	MaxRetryAttempts         = 10
	MinBackoffMultiplier     = 1.0
	MaxBackoffMultiplier     = 10.0
)

// RetryConfig holds retry behavior for transient failures.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (1 = no retry).
	MaxAttempts int

	// DelayMs is the initial delay between attempts in milliseconds.
	DelayMs int

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64

	// MaxDelayMs caps the delay between attempts.
	MaxDelayMs int
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       DefaultMaxAttempts,
		DelayMs:           DefaultDelayMs,
		BackoffMultiplier: DefaultBackoffMultiplier,
		MaxDelayMs:        DefaultMaxDelayMs,
	}
}

// Validate checks the configuration bounds.
func (c RetryConfig) Validate() error {
	if c.MaxAttempts < 1 || c.MaxAttempts > MaxRetryAttempts {
		return fmt.Errorf("maxAttempts must be between 1 and %d, got %d", MaxRetryAttempts, c.MaxAttempts)
	}
	if c.BackoffMultiplier < MinBackoffMultiplier || c.BackoffMultiplier > MaxBackoffMultiplier {
		return fmt.Errorf("backoffMultiplier must be between %v and %v, got %v",
			MinBackoffMultiplier, MaxBackoffMultiplier, c.BackoffMultiplier)
	}
	if c.DelayMs < 0 || c.MaxDelayMs < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}

// CalculateDelay returns the backoff delay before the given attempt
// (1-based: attempt 1 ran already, the delay precedes attempt 2).
func (c RetryConfig) CalculateDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(c.DelayMs) * math.Pow(c.BackoffMultiplier, float64(attempt-1))
	if maxDelay := float64(c.MaxDelayMs); delay > maxDelay {
		delay = maxDelay
	}
	return time.Duration(delay) * time.Millisecond
}

// ParseRetryConfig builds a RetryConfig from a raw configuration map,
// falling back to defaults for absent fields.
func ParseRetryConfig(m map[string]interface{}) RetryConfig {
	cfg := DefaultRetryConfig()
	if m == nil {
		return cfg
	}
	if v, ok := m["maxAttempts"].(float64); ok {
		cfg.MaxAttempts = int(v)
	}
	if v, ok := m["delayMs"].(float64); ok {
		cfg.DelayMs = int(v)
	}
	if v, ok := m["backoffMultiplier"].(float64); ok {
		cfg.BackoffMultiplier = v
	}
	if v, ok := m["maxDelayMs"].(float64); ok {
		cfg.MaxDelayMs = int(v)
	}
	return cfg
}

// RetryFunc is one attempt of a retryable operation.
type RetryFunc func(ctx context.Context) error

// Retry runs fn up to cfg.MaxAttempts times, sleeping with exponential
// backoff between attempts. Non-retryable errors (per IsRetryable) and
// context cancellation stop the loop immediately. The last error is
// returned when all attempts fail.
func Retry(ctx context.Context, cfg RetryConfig, fn RetryFunc) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := cfg.CalculateDelay(attempt)
		logger.Warn("attempt failed, retrying",
			"attempt", attempt,
			"max_attempts", cfg.MaxAttempts,
			"delay", delay,
			"error", lastErr.Error(),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}
