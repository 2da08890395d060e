// Package metrics keeps in-process counters, timers and health flags exposed
// on the /metrics endpoint.
package metrics

import (
	"math"
	"sync"
	"time"
)

// Metric names
const (
	OrdersCreated   = "orders_created"
	OrdersUpdated   = "orders_updated"
	OrdersCleared   = "orders_cleared"
	PlansSaved      = "plans_saved"
	PlansDeleted    = "plans_deleted"
	DaysResolved    = "days_resolved"
	DaysIndexed     = "days_indexed"
	EventsPublished = "events_published"
	EventsFailed    = "events_failed"
	HTTPRequests    = "http_requests"
)

// TimerMetric summarizes recorded durations
type TimerMetric struct {
	Count         int64   `json:"count"`
	TotalTimeMs   int64   `json:"total_time_ms"`
	AverageTimeMs float64 `json:"average_time_ms"`
	MinTimeMs     int64   `json:"min_time_ms"`
	MaxTimeMs     int64   `json:"max_time_ms"`
}

// ErrorRateMetric is the share of failed operations in percent
type ErrorRateMetric struct {
	Total     int64   `json:"total"`
	Errors    int64   `json:"errors"`
	ErrorRate float64 `json:"error_rate"`
}

type timer struct {
	count, total, min, max int64
}

type errorRate struct {
	total, errors int64
}

// Metrics is the main metrics collector
type Metrics struct {
	mu         sync.Mutex
	counters   map[string]int64
	gauges     map[string]int64
	timers     map[string]*timer
	errorRates map[string]*errorRate
	health     map[string]bool
	startTime  time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		counters:   make(map[string]int64),
		gauges:     make(map[string]int64),
		timers:     make(map[string]*timer),
		errorRates: make(map[string]*errorRate),
		health:     make(map[string]bool),
		startTime:  time.Now(),
	}
}

// IncrementCounter increments a counter by 1
func (m *Metrics) IncrementCounter(name string) {
	m.IncrementCounterBy(name, 1)
}

// IncrementCounterBy increments a counter by value
func (m *Metrics) IncrementCounterBy(name string, value int64) {
	m.mu.Lock()
	m.counters[name] += value
	m.mu.Unlock()
}

// SetGauge sets a gauge to value
func (m *Metrics) SetGauge(name string, value int64) {
	m.mu.Lock()
	m.gauges[name] = value
	m.mu.Unlock()
}

// RecordTimer records a duration
func (m *Metrics) RecordTimer(name string, d time.Duration) {
	ms := d.Milliseconds()

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.timers[name]
	if !ok {
		t = &timer{min: math.MaxInt64}
		m.timers[name] = t
	}
	t.count++
	t.total += ms
	if ms < t.min {
		t.min = ms
	}
	if ms > t.max {
		t.max = ms
	}
}

// Observe records the duration since start and the outcome of an operation
func (m *Metrics) Observe(name string, start time.Time, err error) {
	m.RecordTimer(name, time.Since(start))
	if err != nil {
		m.RecordError(name)
		return
	}
	m.RecordSuccess(name)
}

// RecordSuccess records a successful operation for error rate tracking
func (m *Metrics) RecordSuccess(name string) {
	m.recordErrorRate(name, false)
}

// RecordError records a failed operation for error rate tracking
func (m *Metrics) RecordError(name string) {
	m.recordErrorRate(name, true)
}

func (m *Metrics) recordErrorRate(name string, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.errorRates[name]
	if !ok {
		r = &errorRate{}
		m.errorRates[name] = r
	}
	r.total++
	if failed {
		r.errors++
	}
}

// SetHealth sets the health status of a component
func (m *Metrics) SetHealth(component string, healthy bool) {
	m.mu.Lock()
	m.health[component] = healthy
	m.mu.Unlock()
}

// GetCounters returns all counters
func (m *Metrics) GetCounters() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyMap(m.counters)
}

// GetGauges returns all gauges
func (m *Metrics) GetGauges() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyMap(m.gauges)
}

// GetTimers returns all timers
func (m *Metrics) GetTimers() map[string]TimerMetric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]TimerMetric, len(m.timers))
	for name, t := range m.timers {
		tm := TimerMetric{Count: t.count, TotalTimeMs: t.total, MinTimeMs: t.min, MaxTimeMs: t.max}
		if t.count > 0 {
			tm.AverageTimeMs = float64(t.total) / float64(t.count)
		}
		out[name] = tm
	}
	return out
}

// GetErrorRates returns all error rates
func (m *Metrics) GetErrorRates() map[string]ErrorRateMetric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]ErrorRateMetric, len(m.errorRates))
	for name, r := range m.errorRates {
		em := ErrorRateMetric{Total: r.total, Errors: r.errors}
		if r.total > 0 {
			em.ErrorRate = float64(r.errors) / float64(r.total) * 100
		}
		out[name] = em
	}
	return out
}

// GetHealthChecks returns all health checks
func (m *Metrics) GetHealthChecks() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyMap(m.health)
}

// Healthy reports whether every registered component is healthy
func (m *Metrics) Healthy() bool {
	for _, ok := range m.GetHealthChecks() {
		if !ok {
			return false
		}
	}
	return true
}

// GetUptimeSeconds returns the service uptime in seconds
func (m *Metrics) GetUptimeSeconds() int64 {
	return int64(time.Since(m.startTime).Seconds())
}

// GetAllMetrics returns all metrics in a structured format
func (m *Metrics) GetAllMetrics() map[string]interface{} {
	return map[string]interface{}{
		"uptime_seconds": m.GetUptimeSeconds(),
		"counters":       m.GetCounters(),
		"gauges":         m.GetGauges(),
		"timers":         m.GetTimers(),
		"error_rates":    m.GetErrorRates(),
		"health_checks":  m.GetHealthChecks(),
	}
}

func copyMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
