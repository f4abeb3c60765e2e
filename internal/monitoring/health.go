package monitoring

import (
	"context"
	"runtime"
	"time"
)

// Health statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency. A nil error means the dependency is up.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of a single dependency probe
type CheckResult struct {
	Status    string  `json:"status"`
	LatencyMS float64 `json:"latencyMs"`
	Error     string  `json:"error,omitempty"`
}

// HealthReport is the response body of the detailed health endpoint
type HealthReport struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	UptimeSecs float64                `json:"uptimeSeconds"`
	Checks     map[string]CheckResult `json:"checks"`
	Runtime    RuntimeStats           `json:"runtime"`
}

// RegisterCheck adds a named dependency probe to the detailed health report
func (c *Collector) RegisterCheck(name string, fn CheckFunc) {
	c.checksMu.Lock()
	c.checks[name] = fn
	c.checksMu.Unlock()
}

// HealthReport runs every registered probe and aggregates the results.
// The overall status is unhealthy if any probe fails, otherwise healthy.
func (c *Collector) HealthReport(ctx context.Context) HealthReport {
	c.checksMu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.checksMu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	overall := StatusHealthy
	for name, fn := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		start := time.Now()
		err := fn(checkCtx)
		cancel()

		result := CheckResult{
			Status:    StatusHealthy,
			LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
		}
		if err != nil {
			result.Status = StatusUnhealthy
			result.Error = err.Error()
			overall = StatusUnhealthy
		}
		results[name] = result
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	heapPercent := 0.0
	if m.HeapSys > 0 {
		heapPercent = float64(m.HeapInuse) / float64(m.HeapSys) * 100
	}
	if overall == StatusHealthy && heapPercent >= c.alertCfg.MemoryWarnPercent {
		overall = StatusDegraded
	}

	return HealthReport{
		Status:     overall,
		Timestamp:  time.Now(),
		UptimeSecs: time.Since(c.startedAt).Seconds(),
		Checks:     results,
		Runtime: RuntimeStats{
			Goroutines:      runtime.NumGoroutine(),
			HeapAllocBytes:  m.HeapAlloc,
			HeapSysBytes:    m.HeapSys,
			HeapUsedPercent: heapPercent,
			NumGC:           m.NumGC,
		},
	}
}
