package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weathernow/internal/server/middlewares"
	"go.uber.org/zap"
)

// AppMetrics holds lookup-level counters.
type AppMetrics struct {
	mutex          sync.RWMutex
	lookups        map[string]int64
	lookupSeconds  map[string]float64
	upstreamCalls  map[string]int64
	upstreamErrors map[string]int64
}

// HTTPMetricsProvider exposes request counters collected by the middleware.
type HTTPMetricsProvider interface {
	Snapshot() middlewares.HTTPMetricsSnapshot
}

type MetricsHandler struct {
	logger     *zap.Logger
	appMetrics *AppMetrics
	http       HTTPMetricsProvider
}

func NewMetricsHandler(logger *zap.Logger, httpMetrics HTTPMetricsProvider) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		appMetrics: &AppMetrics{
			lookups:        make(map[string]int64),
			lookupSeconds:  make(map[string]float64),
			upstreamCalls:  make(map[string]int64),
			upstreamErrors: make(map[string]int64),
		},
		http: httpMetrics,
	}
}

// RecordLookup implements lookup.MetricsRecorder.
func (h *MetricsHandler) RecordLookup(ctx context.Context, outcome string, duration time.Duration) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.lookups[outcome]++
	h.appMetrics.lookupSeconds[outcome] += duration.Seconds()
	h.appMetrics.mutex.Unlock()
}

// RecordUpstreamCall implements lookup.MetricsRecorder.
func (h *MetricsHandler) RecordUpstreamCall(ctx context.Context, endpoint string, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.upstreamCalls[endpoint]++
	if !success {
		h.appMetrics.upstreamErrors[endpoint]++
	}
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics writes all counters in the Prometheus text format.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.http != nil {
		snap := h.http.Snapshot()

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		for _, key := range sortedKeys(snap.RequestsTotal) {
			fmt.Fprintf(&b, "http_requests_total{route_status=%q} %d\n", key, snap.RequestsTotal[key])
		}

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		fmt.Fprintf(&b, "http_request_duration_seconds_avg %.6f\n", snap.AvgDurationSeconds)

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		fmt.Fprintf(&b, "http_active_requests %d\n", snap.ActiveRequests)
		b.WriteString("\n")
	}

	h.appMetrics.mutex.RLock()
	defer h.appMetrics.mutex.RUnlock()

	b.WriteString("# HELP weather_lookups_total Total lookups by outcome\n")
	b.WriteString("# TYPE weather_lookups_total counter\n")
	for _, outcome := range sortedKeys(h.appMetrics.lookups) {
		fmt.Fprintf(&b, "weather_lookups_total{outcome=%q} %d\n", outcome, h.appMetrics.lookups[outcome])
	}

	b.WriteString("\n# HELP weather_lookup_duration_seconds_sum Total time spent in lookups by outcome\n")
	b.WriteString("# TYPE weather_lookup_duration_seconds_sum counter\n")
	for _, outcome := range sortedKeys(h.appMetrics.lookupSeconds) {
		fmt.Fprintf(&b, "weather_lookup_duration_seconds_sum{outcome=%q} %.6f\n", outcome, h.appMetrics.lookupSeconds[outcome])
	}

	b.WriteString("\n# HELP weather_upstream_calls_total Total Open-Meteo calls\n")
	b.WriteString("# TYPE weather_upstream_calls_total counter\n")
	for _, endpoint := range sortedKeys(h.appMetrics.upstreamCalls) {
		fmt.Fprintf(&b, "weather_upstream_calls_total{endpoint=%q} %d\n", endpoint, h.appMetrics.upstreamCalls[endpoint])
	}

	b.WriteString("\n# HELP weather_upstream_errors_total Total failed Open-Meteo calls\n")
	b.WriteString("# TYPE weather_upstream_errors_total counter\n")
	for _, endpoint := range sortedKeys(h.appMetrics.upstreamErrors) {
		fmt.Fprintf(&b, "weather_upstream_errors_total{endpoint=%q} %d\n", endpoint, h.appMetrics.upstreamErrors[endpoint])
	}

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, b.String())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
