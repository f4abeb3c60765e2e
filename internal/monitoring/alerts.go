package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/eduforge/eduforge-api/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Alert severities
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert types
const (
	AlertTypeErrorRate = "error_rate"
	AlertTypeMemory    = "memory"
)

// alertCooldown suppresses refiring the same type+severity while the
// condition persists.
const alertCooldown = time.Minute

// Alert is a threshold breach recorded by the collector
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Timestamp time.Time `json:"timestamp"`
}

// evaluateErrorRate counts server errors inside the sliding window and fires
// when the count crosses the configured thresholds.
func (c *Collector) evaluateErrorRate(now time.Time) {
	window := time.Duration(c.alertCfg.ErrorRateWindow) * time.Second
	cutoff := now.Add(-window)

	c.mu.Lock()
	// Drop timestamps that fell out of the window
	kept := c.errorTimes[:0]
	for _, t := range c.errorTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	c.errorTimes = kept
	count := len(kept)
	c.mu.Unlock()

	switch {
	case count >= c.alertCfg.CriticalErrorCount:
		c.fire(AlertTypeErrorRate, SeverityCritical,
			fmt.Sprintf("%d server errors in the last %s", count, window),
			float64(count), float64(c.alertCfg.CriticalErrorCount))
	case count >= c.alertCfg.HighErrorCount:
		c.fire(AlertTypeErrorRate, SeverityWarning,
			fmt.Sprintf("%d server errors in the last %s", count, window),
			float64(count), float64(c.alertCfg.HighErrorCount))
	}
}

// evaluateMemory fires when heap usage crosses the configured percentages
func (c *Collector) evaluateMemory(heapPercent float64) {
	switch {
	case heapPercent >= c.alertCfg.MemoryCritPercent:
		c.fire(AlertTypeMemory, SeverityCritical,
			fmt.Sprintf("heap usage at %.1f%%", heapPercent),
			heapPercent, c.alertCfg.MemoryCritPercent)
	case heapPercent >= c.alertCfg.MemoryWarnPercent:
		c.fire(AlertTypeMemory, SeverityWarning,
			fmt.Sprintf("heap usage at %.1f%%", heapPercent),
			heapPercent, c.alertCfg.MemoryWarnPercent)
	}
}

// fire records an alert and forwards it to the configured webhooks.
// Repeated breaches of the same type+severity are suppressed for the
// cooldown period so a sustained condition does not flood the channels.
func (c *Collector) fire(alertType, severity, message string, value, threshold float64) {
	key := alertType + ":" + severity
	now := time.Now()

	c.mu.Lock()
	if last, ok := c.lastFired[key]; ok && now.Sub(last) < alertCooldown {
		c.mu.Unlock()
		return
	}
	c.lastFired[key] = now

	alert := Alert{
		ID:        uuid.New().String(),
		Type:      alertType,
		Severity:  severity,
		Message:   message,
		Value:     value,
		Threshold: threshold,
		Timestamp: now,
	}
	if len(c.alerts) >= maxStoredAlerts {
		c.alerts = c.alerts[1:]
	}
	c.alerts = append(c.alerts, alert)
	c.mu.Unlock()

	metrics.AlertsFired.WithLabelValues(alertType, severity).Inc()
	logger.Warn("Monitoring alert fired",
		zap.String("type", alertType),
		zap.String("severity", severity),
		zap.String("message", message),
		zap.Float64("value", value),
		zap.Float64("threshold", threshold))

	c.forward(alert)
}

// forward pushes the alert to every configured webhook. Delivery is
// best-effort: failures are logged and never affect request handling.
func (c *Collector) forward(alert Alert) {
	if c.httpClient == nil {
		return
	}

	text := fmt.Sprintf("[%s] %s alert: %s (value %.1f, threshold %.1f)",
		alert.Severity, alert.Type, alert.Message, alert.Value, alert.Threshold)

	if url := c.alertCfg.SlackWebhookURL; url != "" {
		c.post(url, "slack", map[string]string{"text": text})
	}
	if url := c.alertCfg.DiscordWebhookURL; url != "" {
		c.post(url, "discord", map[string]string{"content": text})
	}
	for _, url := range c.alertCfg.WebhookURLs {
		c.post(url, "generic", alert)
	}
}

func (c *Collector) post(url, channel string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal alert payload",
			zap.Error(err), zap.String("channel", channel))
		return
	}

	go func() {
		resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			logger.Warn("Alert webhook delivery failed",
				zap.Error(err), zap.String("channel", channel))
			return
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode >= 300 {
			logger.Warn("Alert webhook returned non-success status",
				zap.Int("status", resp.StatusCode), zap.String("channel", channel))
			return
		}
		logger.Debug("Alert forwarded", zap.String("channel", channel))
	}()
}
