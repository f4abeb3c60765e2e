package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/eduforge/eduforge-api/config"
	"github.com/eduforge/eduforge-api/pkg/httpclient"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"go.uber.org/zap"
)

const (
	// maxSamplesPerSeries bounds memory: once a series is full the oldest
	// sample is dropped for each new one.
	maxSamplesPerSeries = 1000

	// maxStoredAlerts bounds the in-memory alert history returned by Snapshot.
	maxStoredAlerts = 100

	// evaluateInterval is how often the background loop samples the runtime
	// and re-evaluates thresholds.
	evaluateInterval = 30 * time.Second
)

// Sample is a single observed value of a named series
type Sample struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// SeriesSummary aggregates a sample series for the snapshot
type SeriesSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Latest float64 `json:"latest"`
}

// Snapshot is the point-in-time view streamed to the metrics dashboard
type Snapshot struct {
	Timestamp  time.Time                `json:"timestamp"`
	UptimeSecs float64                  `json:"uptimeSeconds"`
	Counters   map[string]int64         `json:"counters"`
	Series     map[string]SeriesSummary `json:"series"`
	Alerts     []Alert                  `json:"alerts"`
	Runtime    RuntimeStats             `json:"runtime"`
}

// RuntimeStats reports process-level gauges included in every snapshot
type RuntimeStats struct {
	Goroutines      int     `json:"goroutines"`
	HeapAllocBytes  uint64  `json:"heapAllocBytes"`
	HeapSysBytes    uint64  `json:"heapSysBytes"`
	HeapUsedPercent float64 `json:"heapUsedPercent"`
	NumGC           uint32  `json:"numGC"`
}

// Collector gathers request samples and counters, evaluates alert thresholds,
// and serves snapshots for the SSE stream. It is safe for concurrent use.
// Call Start to run the background evaluation loop and Stop to halt it.
type Collector struct {
	mu         sync.RWMutex
	samples    map[string][]Sample
	counters   map[string]int64
	alerts     []Alert
	errorTimes []time.Time
	lastFired  map[string]time.Time
	startedAt  time.Time

	checksMu sync.RWMutex
	checks   map[string]CheckFunc

	alertCfg   config.AlertingConfig
	httpClient httpclient.Client

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewCollector creates a collector. Start must be called before the
// background evaluation runs; recording works either way.
func NewCollector(alertCfg config.AlertingConfig, httpClient httpclient.Client) *Collector {
	return &Collector{
		samples:    make(map[string][]Sample),
		counters:   make(map[string]int64),
		lastFired:  make(map[string]time.Time),
		checks:     make(map[string]CheckFunc),
		alertCfg:   alertCfg,
		httpClient: httpClient,
		startedAt:  time.Now(),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start launches the background evaluation loop
func (c *Collector) Start() {
	go c.run()
	logger.Info("Monitoring collector started",
		zap.Duration("interval", evaluateInterval),
		zap.Int("error_window_seconds", c.alertCfg.ErrorRateWindow))
}

// Stop halts the background loop and waits for it to exit
func (c *Collector) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		<-c.doneCh
		logger.Info("Monitoring collector stopped")
	})
}

func (c *Collector) run() {
	defer close(c.doneCh)

	ticker := time.NewTicker(evaluateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.evaluateRuntime()
		}
	}
}

// RecordHTTPRequest is the middleware hook: it stores the request duration,
// bumps counters, and re-evaluates the error-rate threshold on server errors.
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	now := time.Now()

	c.mu.Lock()
	c.appendSample("http.request.duration_ms", float64(duration.Milliseconds()), now)
	c.counters["http.requests.total"]++
	isError := statusCode >= 500
	if isError {
		c.counters["http.errors.total"]++
		c.errorTimes = append(c.errorTimes, now)
	}
	c.mu.Unlock()

	if isError {
		c.evaluateErrorRate(now)
	}
}

// RecordSample stores one value of a named series
func (c *Collector) RecordSample(name string, value float64) {
	c.mu.Lock()
	c.appendSample(name, value, time.Now())
	c.mu.Unlock()
}

// IncrCounter bumps a named counter by delta
func (c *Collector) IncrCounter(name string, delta int64) {
	c.mu.Lock()
	c.counters[name] += delta
	c.mu.Unlock()
}

// appendSample requires c.mu to be held
func (c *Collector) appendSample(name string, value float64, ts time.Time) {
	series := c.samples[name]
	if len(series) >= maxSamplesPerSeries {
		series = series[1:]
	}
	c.samples[name] = append(series, Sample{Value: value, Timestamp: ts})
}

// Snapshot returns the current state for the SSE stream and metrics endpoint
func (c *Collector) Snapshot() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.mu.RLock()
	defer c.mu.RUnlock()

	counters := make(map[string]int64, len(c.counters))
	for k, v := range c.counters {
		counters[k] = v
	}

	series := make(map[string]SeriesSummary, len(c.samples))
	for name, samples := range c.samples {
		series[name] = summarize(samples)
	}

	alerts := make([]Alert, len(c.alerts))
	copy(alerts, c.alerts)

	heapPercent := 0.0
	if m.HeapSys > 0 {
		heapPercent = float64(m.HeapInuse) / float64(m.HeapSys) * 100
	}

	return Snapshot{
		Timestamp:  time.Now(),
		UptimeSecs: time.Since(c.startedAt).Seconds(),
		Counters:   counters,
		Series:     series,
		Alerts:     alerts,
		Runtime: RuntimeStats{
			Goroutines:      runtime.NumGoroutine(),
			HeapAllocBytes:  m.HeapAlloc,
			HeapSysBytes:    m.HeapSys,
			HeapUsedPercent: heapPercent,
			NumGC:           m.NumGC,
		},
	}
}

// Samples returns a copy of the raw samples of one series, oldest first
func (c *Collector) Samples(name string) []Sample {
	c.mu.RLock()
	defer c.mu.RUnlock()

	series := c.samples[name]
	out := make([]Sample, len(series))
	copy(out, series)
	return out
}

func summarize(samples []Sample) SeriesSummary {
	if len(samples) == 0 {
		return SeriesSummary{}
	}

	s := SeriesSummary{
		Count:  len(samples),
		Min:    samples[0].Value,
		Max:    samples[0].Value,
		Latest: samples[len(samples)-1].Value,
	}
	sum := 0.0
	for _, sample := range samples {
		sum += sample.Value
		if sample.Value < s.Min {
			s.Min = sample.Value
		}
		if sample.Value > s.Max {
			s.Max = sample.Value
		}
	}
	s.Avg = sum / float64(len(samples))
	return s
}

// evaluateRuntime runs on the background ticker: it samples the Go runtime
// and checks the memory thresholds.
func (c *Collector) evaluateRuntime() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	heapPercent := 0.0
	if m.HeapSys > 0 {
		heapPercent = float64(m.HeapInuse) / float64(m.HeapSys) * 100
	}

	c.mu.Lock()
	now := time.Now()
	c.appendSample("runtime.goroutines", float64(runtime.NumGoroutine()), now)
	c.appendSample("runtime.heap_used_percent", heapPercent, now)
	c.mu.Unlock()

	c.evaluateMemory(heapPercent)
}
