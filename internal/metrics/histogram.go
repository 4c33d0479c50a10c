package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

// DefaultHistogramSize is the sample window used when none is given.
const DefaultHistogramSize = 4096

// Histogram keeps a sliding window of duration samples in milliseconds.
type Histogram struct {
	mu      sync.Mutex
	samples []float64
	next    int
	full    bool
}

// NewHistogram creates a histogram holding at most size samples.
// Once full, each new sample replaces the oldest one.
func NewHistogram(size int) *Histogram {
	if size <= 0 {
		size = DefaultHistogramSize
	}
	return &Histogram{samples: make([]float64, size)}
}

// Record adds a duration sample.
func (h *Histogram) Record(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.samples[h.next] = float64(d.Microseconds()) / 1000.0
	h.next++
	if h.next == len(h.samples) {
		h.next = 0
		h.full = true
	}
}

// Count returns the number of samples in the window.
func (h *Histogram) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count()
}

func (h *Histogram) count() int {
	if h.full {
		return len(h.samples)
	}
	return h.next
}

// Snapshot computes latency statistics over the current window.
func (h *Histogram) Snapshot() LatencyStats {
	h.mu.Lock()
	sorted := make([]float64, h.count())
	copy(sorted, h.samples[:len(sorted)])
	h.mu.Unlock()

	if len(sorted) == 0 {
		return LatencyStats{}
	}
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return LatencyStats{
		Mean:  sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
}

// Reset clears all samples.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next = 0
	h.full = false
}

// percentile interpolates linearly between the two nearest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}
