package retry

import (
	"math"
	"math/rand"
	"time"
)

const defaultBaseDelay = 100 * time.Millisecond

// BackoffStrategy delay before retry number attempt (from 1)
type BackoffStrategy interface {
	Next(attempt int) time.Duration
}

// BackoffOption backoff option
type BackoffOption func(*backoffConfig)

type backoffConfig struct {
	multiplier float64
	maxDelay   time.Duration
	jitter     float64 // ± ratio
}

func defaultBackoffConfig() *backoffConfig {
	return &backoffConfig{
		multiplier: 2.0,
		maxDelay:   30 * time.Second,
		jitter:     0.2,
	}
}

// WithMultiplier exponential factor
func WithMultiplier(m float64) BackoffOption {
	return func(c *backoffConfig) {
		if m > 0 {
			c.multiplier = m
		}
	}
}

// WithMaxDelay delay cap
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(c *backoffConfig) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithJitter jitter ratio in [0, 1]
func WithJitter(ratio float64) BackoffOption {
	return func(c *backoffConfig) {
		if ratio >= 0 && ratio <= 1.0 {
			c.jitter = ratio
		}
	}
}

type exponentialBackoff struct {
	base   time.Duration
	config *backoffConfig
}

// ExponentialBackoff delay = base * multiplier^(attempt-1), capped, with jitter
func ExponentialBackoff(base time.Duration, opts ...BackoffOption) BackoffStrategy {
	cfg := defaultBackoffConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &exponentialBackoff{base: base, config: cfg}
}

func (b *exponentialBackoff) Next(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(b.base) * math.Pow(b.config.multiplier, float64(attempt-1))
	if delay > float64(b.config.maxDelay) {
		delay = float64(b.config.maxDelay)
	}
	if b.config.jitter > 0 {
		delay = applyJitter(delay, b.config.jitter)
	}
	return time.Duration(delay)
}

type constantBackoff time.Duration

// ConstantBackoff same delay before every retry
func ConstantBackoff(delay time.Duration) BackoffStrategy {
	return constantBackoff(delay)
}

func (b constantBackoff) Next(int) time.Duration {
	return time.Duration(b)
}

// NoBackoff retries immediately
func NoBackoff() BackoffStrategy {
	return constantBackoff(0)
}

func applyJitter(delay, jitter float64) float64 {
	// uniform in [delay*(1-jitter), delay*(1+jitter)]
	delta := delay * jitter
	result := delay - delta + rand.Float64()*2*delta
	if result < 0 {
		return 0
	}
	return result
}
