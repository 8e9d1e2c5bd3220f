// Package health reports whether an application finished startup and whether its
// materialized components answer their probes.
package health

import (
	"context"
	"time"
)

// Status health status
type Status string

const (
	// StatusHealthy healthy
	StatusHealthy Status = "healthy"
	// StatusDegraded some components unavailable
	StatusDegraded Status = "degraded"
	// StatusUnhealthy unhealthy
	StatusUnhealthy Status = "unhealthy"
)

// Checker one health check item
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Probe optional interface of a component handle; handles without it count as healthy
type Probe interface {
	Check(ctx context.Context) error
}

// CheckResult result of a single check item
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// Response aggregated health report
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  time.Duration          `json:"duration"`
	Checks    map[string]CheckResult `json:"checks"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// IsHealthy overall status is healthy
func (r *Response) IsHealthy() bool {
	return r.Status == StatusHealthy
}

// IsDegraded overall status is degraded
func (r *Response) IsDegraded() bool {
	return r.Status == StatusDegraded
}
