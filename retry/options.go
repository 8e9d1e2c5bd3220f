package retry

type config struct {
	maxAttempts int
	backoff     BackoffStrategy
	condition   Condition
	onRetry     func(attempt int, err error)
}

func defaultConfig() *config {
	return &config{
		maxAttempts: 3,
		backoff:     ExponentialBackoff(defaultBaseDelay),
		condition:   AlwaysRetry(),
	}
}

// Option retry option
type Option func(*config)

// MaxAttempts total attempts including the first; values below 1 are ignored
func MaxAttempts(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.maxAttempts = n
		}
	}
}

// Backoff delay strategy between attempts
func Backoff(b BackoffStrategy) Option {
	return func(c *config) {
		if b != nil {
			c.backoff = b
		}
	}
}

// If retry condition
func If(cond Condition) Option {
	return func(c *config) {
		if cond != nil {
			c.condition = cond
		}
	}
}

// OnRetry callback before each retry
func OnRetry(fn func(attempt int, err error)) Option {
	return func(c *config) {
		c.onRetry = fn
	}
}
