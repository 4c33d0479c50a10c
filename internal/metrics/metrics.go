// Package metrics tracks calculation and card lookup statistics for the API server.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects counters and latency windows. All methods are safe for
// concurrent use.
type Metrics struct {
	CalculationLatency *Histogram
	LookupLatency      *Histogram

	Calculations      atomic.Uint64
	CalculationErrors atomic.Uint64
	CacheHits         atomic.Uint64
	CacheMisses       atomic.Uint64

	mu          sync.Mutex
	byAlgorithm map[string]uint64
	startTime   time.Time
}

// New creates an empty collector.
func New() *Metrics {
	return &Metrics{
		CalculationLatency: NewHistogram(DefaultHistogramSize),
		LookupLatency:      NewHistogram(DefaultHistogramSize),
		byAlgorithm:        make(map[string]uint64),
		startTime:          time.Now(),
	}
}

// RecordCalculation records one mana base calculation.
func (m *Metrics) RecordCalculation(algorithm string, d time.Duration, err error) {
	m.CalculationLatency.Record(d)
	m.Calculations.Add(1)
	if err != nil {
		m.CalculationErrors.Add(1)
		return
	}

	m.mu.Lock()
	m.byAlgorithm[algorithm]++
	m.mu.Unlock()
}

// RecordLookup records one card lookup round trip.
func (m *Metrics) RecordLookup(d time.Duration) {
	m.LookupLatency.Record(d)
}

// RecordCache counts card cache hits and misses.
func (m *Metrics) RecordCache(hits, misses int) {
	m.CacheHits.Add(uint64(hits))
	m.CacheMisses.Add(uint64(misses))
}

// Stats is a point-in-time snapshot of the collector.
type Stats struct {
	CalculationLatency LatencyStats      `json:"calculation_latency"`
	LookupLatency      LatencyStats      `json:"lookup_latency"`
	Calculations       uint64            `json:"calculations"`
	CalculationErrors  uint64            `json:"calculation_errors"`
	ByAlgorithm        map[string]uint64 `json:"by_algorithm"`
	CacheHits          uint64            `json:"cache_hits"`
	CacheMisses        uint64            `json:"cache_misses"`
	CacheHitRate       float64           `json:"cache_hit_rate"` // percentage
	Uptime             string            `json:"uptime"`
}

// LatencyStats contains statistics for a latency histogram.
type LatencyStats struct {
	Mean  float64 `json:"mean"` // milliseconds
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Stats returns a snapshot of the current statistics.
func (m *Metrics) Stats() *Stats {
	m.mu.Lock()
	byAlgorithm := make(map[string]uint64, len(m.byAlgorithm))
	for k, v := range m.byAlgorithm {
		byAlgorithm[k] = v
	}
	uptime := time.Since(m.startTime).Round(time.Second).String()
	m.mu.Unlock()

	hits, misses := m.CacheHits.Load(), m.CacheMisses.Load()
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses) * 100
	}

	return &Stats{
		CalculationLatency: m.CalculationLatency.Snapshot(),
		LookupLatency:      m.LookupLatency.Snapshot(),
		Calculations:       m.Calculations.Load(),
		CalculationErrors:  m.CalculationErrors.Load(),
		ByAlgorithm:        byAlgorithm,
		CacheHits:          hits,
		CacheMisses:        misses,
		CacheHitRate:       hitRate,
		Uptime:             uptime,
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.CalculationLatency.Reset()
	m.LookupLatency.Reset()
	m.Calculations.Store(0)
	m.CalculationErrors.Store(0)
	m.CacheHits.Store(0)
	m.CacheMisses.Store(0)

	m.mu.Lock()
	m.byAlgorithm = make(map[string]uint64)
	m.startTime = time.Now()
	m.mu.Unlock()
}
