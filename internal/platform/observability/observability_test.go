package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&widget{}))
	return db
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults to a no-op tracer", func(t *testing.T) {
		cfg := NewConfig()
		assert.False(t, cfg.IsEnabled())
		assert.False(t, cfg.ServerTimingEnabled())
		assert.Equal(t, "catalog", cfg.ServiceName)
		assert.NotNil(t, cfg.Tracer())
	})

	t.Run("options apply", func(t *testing.T) {
		cfg := NewConfig(
			WithTracerProvider(tracenoop.NewTracerProvider()),
			WithDetailedDBTracing(),
			WithServerTiming(),
		)
		assert.True(t, cfg.IsEnabled())
		assert.True(t, cfg.ServerTimingEnabled())
		assert.True(t, cfg.EnableDetailedDBTracing)
		assert.Equal(t, "catalog", cfg.ServiceName)
	})

	t.Run("nil config is safe", func(t *testing.T) {
		var cfg *Config
		assert.False(t, cfg.IsEnabled())
		assert.NotNil(t, cfg.Tracer())
	})
}

func TestTracerHelpers(t *testing.T) {
	tracer := NewNoopTracer()
	ctx, span := tracer.StartRepositoryOp(context.Background(), "product", "get_all", []string{"Category"})
	require.NotNil(t, span)
	tracer.RecordError(span, errors.New("boom"))
	span.End()

	_, span = tracer.StartRemoteFetch(ctx, "countries", "http://example.invalid/countries")
	span.End()

	var nilTracer *Tracer
	assert.NotNil(t, nilTracer.Provider())
	_, span = nilTracer.StartSpan(context.Background(), "x")
	span.End()
}

func TestLoggerWithTraceWithoutSpan(t *testing.T) {
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, log, LoggerWithTrace(context.Background(), log))
}

func TestHTTPMiddlewarePassthroughWhenDisabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := HTTPMiddleware(NewConfig())(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestServerTiming(t *testing.T) {
	t.Run("disabled writes no header", func(t *testing.T) {
		h := ServerTimingMiddleware(NewConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			AddServerTiming(r.Context(), "remote", "countries", 5*time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Empty(t, rec.Header().Get("Server-Timing"))
	})

	t.Run("enabled reports metrics", func(t *testing.T) {
		h := ServerTimingMiddleware(NewConfig(WithServerTiming()))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := StartServerTiming(r.Context(), "remote", "countries")
			m.Stop()
			w.WriteHeader(http.StatusOK)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Contains(t, rec.Header().Get("Server-Timing"), "remote")
	})

	t.Run("stop on no-op metric is safe", func(t *testing.T) {
		assert.NotPanics(t, func() {
			StartServerTiming(context.Background(), "x", "y").Stop()
		})
	})
}

func TestRegisterServerTimingCallbacks(t *testing.T) {
	db := openDB(t)
	require.NoError(t, RegisterServerTimingCallbacks(db))

	h := ServerTimingMiddleware(NewConfig(WithServerTiming()))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rows []widget
		require.NoError(t, db.WithContext(r.Context()).Find(&rows).Error)
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Header().Get("Server-Timing"), "db")
}

func TestRegisterGORMCallbacks(t *testing.T) {
	t.Run("skipped without tracing", func(t *testing.T) {
		db := openDB(t)
		require.NoError(t, RegisterGORMCallbacks(db, NewConfig(WithDetailedDBTracing())))
		assert.Nil(t, db.Callback().Query().Get("catalog:before_query"))
	})

	t.Run("statements still run with tracing", func(t *testing.T) {
		db := openDB(t)
		cfg := NewConfig(WithTracerProvider(tracenoop.NewTracerProvider()), WithDetailedDBTracing())
		require.NoError(t, RegisterGORMCallbacks(db, cfg))
		assert.NotNil(t, db.Callback().Query().Get("catalog:before_query"))

		require.NoError(t, db.Create(&widget{Name: "w"}).Error)
		var got widget
		require.NoError(t, db.First(&got).Error)
		assert.Equal(t, "w", got.Name)
	})
}
