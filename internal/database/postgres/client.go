package postgres

import (
	"github.com/eduforge/eduforge-api/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Client wraps the pgx pool with booking data access methods
type Client struct {
	pool *pgxpool.Pool
}

// NewClient creates a new postgres client
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Pool exposes the underlying pool for health checks
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

func recordMetrics(operation, status string, duration float64) {
	metrics.DBRequestTotal.WithLabelValues(operation, status).Inc()
	metrics.DBRequestDuration.WithLabelValues(operation, status).Observe(duration)
}

// nilIfEmpty converts empty strings to nil for nullable columns
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func emptyIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
