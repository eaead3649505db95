package observability

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPMiddleware returns an HTTP middleware that instruments requests with tracing.
func HTTPMiddleware(cfg *Config) func(http.Handler) http.Handler {
	if !cfg.IsEnabled() {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, cfg.ServiceName+".http",
			otelhttp.WithTracerProvider(cfg.TracerProvider),
		)
	}
}

// HTTPTransport wraps base so outbound requests carry spans and propagate
// trace context. A nil base uses http.DefaultTransport.
func HTTPTransport(base http.RoundTripper, tracer *Tracer) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base, otelhttp.WithTracerProvider(tracer.Provider()))
}
