package health

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Aggregator runs every registered checker concurrently under one timeout
type Aggregator struct {
	mu       sync.RWMutex
	checkers []Checker
	metadata map[string]interface{}
	timeout  time.Duration
}

// NewAggregator creates an aggregator; a non-positive timeout means 5s
func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Aggregator{
		metadata: make(map[string]interface{}),
		timeout:  timeout,
	}
}

// Register adds a checker
func (a *Aggregator) Register(checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkers = append(a.checkers, checker)
}

// SetMetadata attaches a value to every report
func (a *Aggregator) SetMetadata(key string, value interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metadata[key] = value
}

// Names registered checker names, sorted
func (a *Aggregator) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.checkers))
	for _, c := range a.checkers {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

// Check runs all checkers; the report status is the worst individual status
func (a *Aggregator) Check(ctx context.Context) *Response {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.mu.RLock()
	checkers := append([]Checker(nil), a.checkers...)
	metadata := make(map[string]interface{}, len(a.metadata))
	for k, v := range a.metadata {
		metadata[k] = v
	}
	a.mu.RUnlock()

	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, len(checkers))
		status = StatusHealthy
	)
	// checker errors become results, never group errors
	var g errgroup.Group
	for _, c := range checkers {
		g.Go(func() error {
			res := run(ctx, c)
			mu.Lock()
			checks[res.Name] = res
			if severity(res.Status) > severity(status) {
				status = res.Status
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return &Response{
		Status:    status,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
		Checks:    checks,
		Metadata:  metadata,
	}
}

func run(ctx context.Context, c Checker) CheckResult {
	res := CheckResult{Name: c.Name(), Timestamp: time.Now()}
	err := c.Check(ctx)
	res.Duration = time.Since(res.Timestamp)

	switch {
	case err == nil:
		res.Status, res.Message = StatusHealthy, "OK"
	case errors.Is(err, ErrDegraded):
		res.Status, res.Message, res.Error = StatusDegraded, "Degraded", err.Error()
	default:
		res.Status, res.Message, res.Error = StatusUnhealthy, "Health check failed", err.Error()
	}
	return res
}

func severity(s Status) int {
	switch s {
	case StatusDegraded:
		return 1
	case StatusUnhealthy:
		return 2
	}
	return 0
}
