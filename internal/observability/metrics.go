package observability

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// routeStats accumulates traffic for one route and method.
type routeStats struct {
	Count         int64
	TotalDuration time.Duration
	StatusCounts  map[string]int64
}

// Metrics tracks marketplace traffic in process memory: request volume and
// latency per route, plus domain error codes as they cross the HTTP
// boundary. Counters reset on restart and are exposed through the metrics
// endpoint.
type Metrics struct {
	mu         sync.Mutex
	startedAt  time.Time
	routes     map[string]*routeStats
	errorCodes map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt:  time.Now().UTC(),
		routes:     make(map[string]*routeStats),
		errorCodes: make(map[string]int64),
	}
}

// RecordRequest accounts one completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := routeKey(path, method)
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.routes[key]
	if !ok {
		stats = &routeStats{StatusCounts: make(map[string]int64)}
		m.routes[key] = stats
	}
	stats.Count++
	stats.TotalDuration += duration
	stats.StatusCounts[strconv.Itoa(status)]++
}

// RecordError accounts one domain error leaving the service, keyed by its
// taxonomy code so listing-not-found noise is distinguishable from store
// failures.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCodes[code]++
}

// RouteSnapshot is the exported view of one route's counters.
type RouteSnapshot struct {
	Requests     int64            `json:"requests"`
	AvgLatencyMS float64          `json:"avgLatencyMs"`
	Statuses     map[string]int64 `json:"statuses"`
}

// Snapshot reports all counters accumulated since start.
type Snapshot struct {
	StartedAt time.Time                `json:"startedAt"`
	Routes    map[string]RouteSnapshot `json:"routes"`
	Errors    map[string]int64         `json:"errors"`
}

// Export copies the current counters for serving.
func (m *Metrics) Export() Snapshot {
	snap := Snapshot{
		Routes: make(map[string]RouteSnapshot),
		Errors: make(map[string]int64),
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap.StartedAt = m.startedAt
	for key, stats := range m.routes {
		route := RouteSnapshot{
			Requests: stats.Count,
			Statuses: make(map[string]int64, len(stats.StatusCounts)),
		}
		if stats.Count > 0 {
			route.AvgLatencyMS = float64(stats.TotalDuration.Milliseconds()) / float64(stats.Count)
		}
		for status, n := range stats.StatusCounts {
			route.Statuses[status] = n
		}
		snap.Routes[key] = route
	}
	for code, n := range m.errorCodes {
		snap.Errors[code] = n
	}
	return snap
}

func routeKey(path, method string) string {
	return strings.ToUpper(method) + " " + path
}
