package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects request and normalization counters.
type Metrics struct {
	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	mentionTotal      atomic.Int64
	mentionUnresolved atomic.Int64

	mu     sync.Mutex
	routes map[string]*RouteMetrics
}

// RouteMetrics holds the counters of one route.
type RouteMetrics struct {
	requestCount  atomic.Int64
	totalDuration atomic.Int64 // milliseconds
	errorCount    atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{routes: make(map[string]*RouteMetrics)}
}

// RecordRequest records a finished request of route.
func (m *Metrics) RecordRequest(route string, duration time.Duration, failed bool) {
	rm := m.route(route)
	m.requestTotal.Add(1)
	rm.requestCount.Add(1)
	rm.totalDuration.Add(duration.Milliseconds())
	if failed {
		m.requestFailed.Add(1)
		rm.errorCount.Add(1)
	}
}

// RecordMentions records normalized mentions and how many of them carried
// an error.
func (m *Metrics) RecordMentions(total, unresolved int) {
	m.mentionTotal.Add(int64(total))
	m.mentionUnresolved.Add(int64(unresolved))
}

func (m *Metrics) route(route string) *RouteMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	rm, ok := m.routes[route]
	if !ok {
		rm = &RouteMetrics{}
		m.routes[route] = rm
	}
	return rm
}

// Reset resets all metrics.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.mentionTotal.Store(0)
	m.mentionUnresolved.Store(0)

	m.mu.Lock()
	m.routes = make(map[string]*RouteMetrics)
	m.mu.Unlock()
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	routes := make([]*RouteMetricsSnapshot, 0, len(m.routes))
	for route, rm := range m.routes {
		s := &RouteMetricsSnapshot{
			Route:        route,
			RequestCount: rm.requestCount.Load(),
			ErrorCount:   rm.errorCount.Load(),
		}
		if s.RequestCount > 0 {
			s.AvgLatencyMs = rm.totalDuration.Load() / s.RequestCount
		}
		routes = append(routes, s)
	}
	m.mu.Unlock()
	sort.Slice(routes, func(i, j int) bool { return routes[i].Route < routes[j].Route })

	return &MetricsSnapshot{
		RequestTotal:      m.requestTotal.Load(),
		RequestFailed:     m.requestFailed.Load(),
		MentionTotal:      m.mentionTotal.Load(),
		MentionUnresolved: m.mentionUnresolved.Load(),
		Routes:            routes,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal      int64                   `json:"request_total"`
	RequestFailed     int64                   `json:"request_failed"`
	MentionTotal      int64                   `json:"mention_total"`
	MentionUnresolved int64                   `json:"mention_unresolved"`
	Routes            []*RouteMetricsSnapshot `json:"routes"`
}

// RouteMetricsSnapshot represents the metrics of one route.
type RouteMetricsSnapshot struct {
	Route        string `json:"route"`
	RequestCount int64  `json:"request_count"`
	ErrorCount   int64  `json:"error_count"`
	AvgLatencyMs int64  `json:"avg_latency_ms"`
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
