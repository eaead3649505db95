package observability

import (
	"go.opentelemetry.io/otel/trace"
)

// Config holds the observability configuration.
type Config struct {
	// TracerProvider is the OpenTelemetry tracer provider.
	// If nil, tracing is disabled.
	TracerProvider trace.TracerProvider

	// ServiceName prefixes HTTP server span names.
	ServiceName string

	// EnableDetailedDBTracing adds a span per gorm statement.
	EnableDetailedDBTracing bool

	// EnableServerTiming enables the Server-Timing HTTP response header.
	EnableServerTiming bool

	tracer *Tracer
}

// Option is a functional option for configuring observability.
type Option func(*Config)

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithDetailedDBTracing enables per-statement database spans.
func WithDetailedDBTracing() Option {
	return func(c *Config) {
		c.EnableDetailedDBTracing = true
	}
}

// WithServerTiming enables the Server-Timing HTTP response header.
func WithServerTiming() Option {
	return func(c *Config) {
		c.EnableServerTiming = true
	}
}

// NewConfig creates a configuration and its tracer.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		ServiceName: "catalog",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.TracerProvider != nil {
		cfg.tracer = NewTracer(cfg.TracerProvider)
	} else {
		cfg.tracer = NewNoopTracer()
	}
	return cfg
}

// Tracer returns the configured tracer, or a no-op tracer if not configured.
func (c *Config) Tracer() *Tracer {
	if c == nil || c.tracer == nil {
		return NewNoopTracer()
	}
	return c.tracer
}

// IsEnabled reports whether tracing is configured.
func (c *Config) IsEnabled() bool {
	return c != nil && c.TracerProvider != nil
}

// ServerTimingEnabled reports whether the Server-Timing header is enabled.
func (c *Config) ServerTimingEnabled() bool {
	return c != nil && c.EnableServerTiming
}
