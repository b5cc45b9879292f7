package middlewares

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxDurationSamples = 1000

// HTTPMetricsSnapshot is a copy of the counters safe to read without locks.
type HTTPMetricsSnapshot struct {
	RequestsTotal      map[string]int64
	AvgDurationSeconds float64
	ActiveRequests     int64
}

type MetricsMiddleware struct {
	logger *zap.Logger

	mutex            sync.RWMutex
	requestsTotal    map[string]int64
	requestDurations []float64
	activeRequests   int64
}

func NewMetricsMiddleware(logger *zap.Logger) *MetricsMiddleware {
	return &MetricsMiddleware{
		logger:           logger,
		requestsTotal:    make(map[string]int64),
		requestDurations: make([]float64, 0, maxDurationSamples),
	}
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mutex.Lock()
		m.activeRequests++
		m.mutex.Unlock()

		c.Next()

		duration := time.Since(start).Seconds()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		key := c.Request.Method + " " + route + "_" + strconv.Itoa(c.Writer.Status())

		m.mutex.Lock()
		m.requestsTotal[key]++
		m.requestDurations = append(m.requestDurations, duration)
		m.activeRequests--

		// only the most recent samples feed the average
		if len(m.requestDurations) > maxDurationSamples {
			m.requestDurations = m.requestDurations[len(m.requestDurations)-maxDurationSamples:]
		}
		m.mutex.Unlock()

		m.logger.Debug("HTTP metrics recorded",
			zap.String("key", key),
			zap.Float64("duration", duration))
	}
}

func (m *MetricsMiddleware) Snapshot() HTTPMetricsSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := HTTPMetricsSnapshot{
		RequestsTotal:  make(map[string]int64, len(m.requestsTotal)),
		ActiveRequests: m.activeRequests,
	}
	for k, v := range m.requestsTotal {
		snap.RequestsTotal[k] = v
	}
	if len(m.requestDurations) > 0 {
		var sum float64
		for _, d := range m.requestDurations {
			sum += d
		}
		snap.AvgDurationSeconds = sum / float64(len(m.requestDurations))
	}
	return snap
}
