package input

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/vimkeys/internal/input/action"
)

const latencySamples = 1000

// Metrics tracks input processing counters and key latency.
type Metrics struct {
	keysTotal        atomic.Uint64
	remapsTotal      atomic.Uint64
	matchedTotal     atomic.Uint64
	waitingTotal     atomic.Uint64
	noMatchTotal     atomic.Uint64
	hookConsumptions atomic.Uint64

	mu         sync.Mutex
	latencies  []time.Duration
	latencyIdx int

	peakLatency atomic.Int64

	startTime time.Time

	enabled atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		latencies: make([]time.Duration, latencySamples),
		startTime: time.Now(),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// RecordKey records a processed key with its processing time.
func (m *Metrics) RecordKey(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}

	m.keysTotal.Add(1)

	ns := latency.Nanoseconds()
	for {
		current := m.peakLatency.Load()
		if ns <= current || m.peakLatency.CompareAndSwap(current, ns) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % latencySamples
	m.mu.Unlock()
}

// RecordRemap records an applied remapping.
func (m *Metrics) RecordRemap() {
	if m.enabled.Load() {
		m.remapsTotal.Add(1)
	}
}

// RecordStatus records the resolution status of a key.
func (m *Metrics) RecordStatus(st action.Status) {
	if !m.enabled.Load() {
		return
	}
	switch st {
	case action.Matched:
		m.matchedTotal.Add(1)
	case action.WaitingOnKeys:
		m.waitingTotal.Add(1)
	default:
		m.noMatchTotal.Add(1)
	}
}

// RecordHookConsumption records a key consumed by a hook.
func (m *Metrics) RecordHookConsumption() {
	if m.enabled.Load() {
		m.hookConsumptions.Add(1)
	}
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	KeysTotal        uint64
	RemapsTotal      uint64
	MatchedTotal     uint64
	WaitingTotal     uint64
	NoMatchTotal     uint64
	HookConsumptions uint64

	AvgKeyLatency  time.Duration
	P99KeyLatency  time.Duration
	PeakKeyLatency time.Duration

	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	latencies := make([]time.Duration, 0, len(m.latencies))
	for _, l := range m.latencies {
		if l > 0 {
			latencies = append(latencies, l)
		}
	}
	start := m.startTime
	m.mu.Unlock()

	snap := MetricsSnapshot{
		KeysTotal:        m.keysTotal.Load(),
		RemapsTotal:      m.remapsTotal.Load(),
		MatchedTotal:     m.matchedTotal.Load(),
		WaitingTotal:     m.waitingTotal.Load(),
		NoMatchTotal:     m.noMatchTotal.Load(),
		HookConsumptions: m.hookConsumptions.Load(),
		PeakKeyLatency:   time.Duration(m.peakLatency.Load()),
		Uptime:           time.Since(start),
	}
	snap.AvgKeyLatency, snap.P99KeyLatency = latencyStats(latencies)
	return snap
}

// latencyStats computes the average and p99 of latencies.
func latencyStats(latencies []time.Duration) (avg, p99 time.Duration) {
	if len(latencies) == 0 {
		return 0, 0
	}

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	avg = sum / time.Duration(len(latencies))

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	idx := int(float64(len(latencies)) * 0.99)
	if idx >= len(latencies) {
		idx = len(latencies) - 1
	}
	return avg, latencies[idx]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.keysTotal.Store(0)
	m.remapsTotal.Store(0)
	m.matchedTotal.Store(0)
	m.waitingTotal.Store(0)
	m.noMatchTotal.Store(0)
	m.hookConsumptions.Store(0)
	m.peakLatency.Store(0)

	m.mu.Lock()
	m.latencies = make([]time.Duration, latencySamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}

// Timer measures key processing time.
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// StartKeyTimer starts a timer for one key.
func (m *Metrics) StartKeyTimer() *Timer {
	return &Timer{start: time.Now(), metrics: m}
}

// Stop records the elapsed time.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordKey(elapsed)
	return elapsed
}
