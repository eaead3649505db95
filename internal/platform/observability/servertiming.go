package observability

import (
	"context"
	"net/http"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
)

// ServerTimingMetric wraps the server-timing library's Metric type.
type ServerTimingMetric struct {
	metric *servertiming.Metric
}

// Stop stops the timing metric.
func (m *ServerTimingMetric) Stop() {
	if m != nil && m.metric != nil {
		m.metric.Stop()
	}
}

// StartServerTiming starts a metric with the given name and description.
// Without a Server-Timing header in ctx it returns a no-op metric.
func StartServerTiming(ctx context.Context, name, description string) *ServerTimingMetric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &ServerTimingMetric{}
	}
	return &ServerTimingMetric{
		metric: timing.NewMetric(name).WithDesc(description).Start(),
	}
}

// AddServerTiming appends an already measured duration.
func AddServerTiming(ctx context.Context, name, description string, d time.Duration) {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return
	}
	timing.Add(&servertiming.Metric{Name: name, Desc: description, Duration: d})
}

// ServerTimingMiddleware installs the Server-Timing header when enabled.
func ServerTimingMiddleware(cfg *Config) func(http.Handler) http.Handler {
	if !cfg.ServerTimingEnabled() {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return servertiming.Middleware(next, nil)
	}
}
