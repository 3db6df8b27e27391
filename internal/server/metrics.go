package server

import (
	"sync"
	"time"

	"github.com/ppiankov/truevail/internal/model"
)

// Metrics counts requests and verdict sources since start
type Metrics struct {
	mu       sync.Mutex
	started  time.Time
	requests int64
	byStatus map[int]int64
	verdicts map[model.Kind]int64
	bySource map[model.Source]int64
}

// MetricsSnapshot is the JSON view served at /metrics
type MetricsSnapshot struct {
	UptimeSeconds  float64                `json:"uptime_seconds"`
	Requests       int64                  `json:"requests_total"`
	ByStatus       map[int]int64          `json:"requests_by_status"`
	Verdicts       map[model.Kind]int64   `json:"verdicts_by_type"`
	VerdictSources map[model.Source]int64 `json:"verdicts_by_source"`
}

// NewMetrics creates zeroed counters
func NewMetrics() *Metrics {
	return &Metrics{
		started:  time.Now(),
		byStatus: make(map[int]int64),
		verdicts: make(map[model.Kind]int64),
		bySource: make(map[model.Source]int64),
	}
}

// RecordRequest counts one response
func (m *Metrics) RecordRequest(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	m.byStatus[status]++
}

// RecordVerdict counts one verdict of kind produced by source
func (m *Metrics) RecordVerdict(kind model.Kind, source model.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verdicts[kind]++
	m.bySource[source]++
}

// Snapshot copies the current counters
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		UptimeSeconds:  time.Since(m.started).Seconds(),
		Requests:       m.requests,
		ByStatus:       make(map[int]int64, len(m.byStatus)),
		Verdicts:       make(map[model.Kind]int64, len(m.verdicts)),
		VerdictSources: make(map[model.Source]int64, len(m.bySource)),
	}
	for k, v := range m.byStatus {
		snap.ByStatus[k] = v
	}
	for k, v := range m.verdicts {
		snap.Verdicts[k] = v
	}
	for k, v := range m.bySource {
		snap.VerdictSources[k] = v
	}
	return snap
}
