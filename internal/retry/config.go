package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxAttempts is the total number of attempts (including the first).
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the exponential backoff delay.
	MaxDelay time.Duration

	// Multiplier is the exponential backoff factor.
	Multiplier float64

	// Jitter is the fraction of random variance applied to each delay
	// (0.1 = plus or minus 10%).
	Jitter float64
}

// DefaultConfig returns the default retry configuration:
// 10 attempts, 1s initial delay, 60s max delay, 2x multiplier, 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  10,
		InitialDelay: time.Second,
		MaxDelay:     60 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a configuration that performs a single attempt.
func Disabled() Config {
	return Config{
		MaxAttempts:  1,
		InitialDelay: 0,
		MaxDelay:     0,
		Multiplier:   1.0,
		Jitter:       0,
	}
}

// Delay returns the backoff delay for the given attempt (0-indexed),
// applying the multiplier, the max cap, and jitter.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.Jitter > 0 {
		// Random variance in [-jitter, +jitter]
		variance := delay * c.Jitter * (2*rand.Float64() - 1)
		delay += variance
	}

	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
