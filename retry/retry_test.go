package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func failTimes(n int) func(context.Context) (int, error) {
	calls := 0
	return func(context.Context) (int, error) {
		calls++
		if calls <= n {
			return 0, errFlaky
		}
		return calls, nil
	}
}

func TestDoWithData_SucceedsAfterRetries(t *testing.T) {
	var retried []int
	got, err := DoWithData(context.Background(), failTimes(2),
		MaxAttempts(3), Backoff(NoBackoff()),
		OnRetry(func(attempt int, _ error) { retried = append(retried, attempt) }))

	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDoWithData_AttemptsExhausted(t *testing.T) {
	_, err := DoWithData(context.Background(), failTimes(5), MaxAttempts(3), Backoff(NoBackoff()))

	require.Error(t, err)
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, GetAttempts(err))

	var multi *MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 3)
	assert.Contains(t, multi.AllErrors(), "retry failed after 3 attempts")
	assert.Equal(t, errFlaky, multi.LastError())
}

func TestDo_ConditionStopsRetry(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return fatal
	}, If(RetryOnErrors(errFlaky)), Backoff(NoBackoff()))

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, GetAttempts(err))
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, func(context.Context) error { return errFlaky },
		MaxAttempts(5), Backoff(ConstantBackoff(time.Second)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_DeadlineShorterThanBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Do(ctx, func(context.Context) error { return errFlaky },
		MaxAttempts(5), Backoff(ConstantBackoff(time.Second)))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, GetAttempts(err))
}

func TestGetAttempts_ForeignError(t *testing.T) {
	assert.Equal(t, 0, GetAttempts(errFlaky))
}

func TestConditions(t *testing.T) {
	other := errors.New("other")
	assert.True(t, AlwaysRetry().ShouldRetry(errFlaky, 1))
	assert.False(t, NeverRetry().ShouldRetry(errFlaky, 1))
	assert.True(t, RetryOnErrors(other, errFlaky).ShouldRetry(errFlaky, 1))
	assert.False(t, RetryOnErrors(other).ShouldRetry(errFlaky, 1))
	assert.True(t, Not(RetryOnErrors(other)).ShouldRetry(errFlaky, 1))
	assert.False(t, And(AlwaysRetry(), NeverRetry()).ShouldRetry(errFlaky, 1))
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff(100*time.Millisecond, WithJitter(0), WithMaxDelay(time.Second))
	assert.Equal(t, time.Duration(0), b.Next(0))
	assert.Equal(t, 100*time.Millisecond, b.Next(1))
	assert.Equal(t, 200*time.Millisecond, b.Next(2))
	assert.Equal(t, 400*time.Millisecond, b.Next(3))
	assert.Equal(t, time.Second, b.Next(10))

	jittered := ExponentialBackoff(100*time.Millisecond, WithJitter(0.5))
	for i := 0; i < 20; i++ {
		d := jittered.Next(1)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestConfig(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled())
	assert.Len(t, cfg.Options(), 2)

	cfg.MaxAttempts = 0
	assert.Error(t, cfg.Validate())
	cfg = DefaultConfig()
	cfg.Jitter = 2
	assert.Error(t, cfg.Validate())
}
