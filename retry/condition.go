package retry

import "errors"

// Condition decides whether a failed attempt is retried
type Condition interface {
	ShouldRetry(err error, attempt int) bool
}

// ConditionFunc function adapter
type ConditionFunc func(err error, attempt int) bool

// ShouldRetry implements Condition
func (f ConditionFunc) ShouldRetry(err error, attempt int) bool {
	return f(err, attempt)
}

// AlwaysRetry retries every error
func AlwaysRetry() Condition {
	return ConditionFunc(func(err error, _ int) bool { return err != nil })
}

// NeverRetry never retries
func NeverRetry() Condition {
	return ConditionFunc(func(error, int) bool { return false })
}

// RetryOnErrors retries errors matching any target through errors.Is
func RetryOnErrors(targets ...error) Condition {
	return ConditionFunc(func(err error, _ int) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	})
}

// Not negates cond
func Not(cond Condition) Condition {
	return ConditionFunc(func(err error, attempt int) bool {
		return !cond.ShouldRetry(err, attempt)
	})
}

// And retries only when every condition agrees
func And(conds ...Condition) Condition {
	return ConditionFunc(func(err error, attempt int) bool {
		for _, c := range conds {
			if !c.ShouldRetry(err, attempt) {
				return false
			}
		}
		return true
	})
}
