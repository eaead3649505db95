package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	cataloghandler "catalog/internal/catalog/handler"
	catalogservice "catalog/internal/catalog/service"
	catalogstore "catalog/internal/catalog/store"
	coronaclient "catalog/internal/corona/client"
	coronahandler "catalog/internal/corona/handler"
	"catalog/internal/platform/config"
	"catalog/internal/platform/database"
	"catalog/internal/platform/httpserver"
	"catalog/internal/platform/logger"
	"catalog/internal/platform/metrics"
	"catalog/internal/platform/observability"
	httptransport "catalog/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	obs := observability.NewConfig(observabilityOptions(cfg)...)

	db, err := database.Open(database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	}, log, obs)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := catalogstore.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.Database.Seed {
		if err := catalogstore.Seed(ctx, db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info("demo catalog seeded")
	}

	catalogSvc, err := catalogservice.New(db,
		catalogservice.WithLogger(log),
		catalogservice.WithMetrics(m),
		catalogservice.WithTracer(obs.Tracer()),
	)
	if err != nil {
		return err
	}

	clientOpts := []coronaclient.Option{
		coronaclient.WithMetrics(m),
		coronaclient.WithTracer(obs.Tracer()),
	}
	if cfg.Corona.Timeout > 0 {
		clientOpts = append(clientOpts, coronaclient.WithTimeout(cfg.Corona.Timeout))
	}
	corona, err := coronaclient.New(cfg.Corona.BaseURL, clientOpts...)
	if err != nil {
		return fmt.Errorf("corona client: %w", err)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:        log,
		Metrics:       m,
		Gatherer:      reg,
		Observability: obs,
		Health: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		Handlers: []httptransport.Registrar{
			cataloghandler.New(catalogSvc, log),
			coronahandler.New(corona, log, cfg.Corona.DefaultCountry),
		},
	})

	srvOpts := []httpserver.Option{httpserver.WithErrorLog(log)}
	if cfg.Corona.Timeout > 0 {
		srvOpts = append(srvOpts, httpserver.WithWriteTimeout(cfg.Corona.Timeout+10*time.Second))
	}
	srv := httpserver.New(cfg.Server.Addr, router, srvOpts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting catalog", "addr", cfg.Server.Addr, "db_driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// observabilityOptions uses the global tracer provider, which is a no-op
// until an exporter is installed.
func observabilityOptions(cfg config.Config) []observability.Option {
	opts := []observability.Option{
		observability.WithTracerProvider(otel.GetTracerProvider()),
	}
	if cfg.Server.ServerTiming {
		opts = append(opts, observability.WithServerTiming())
	}
	if cfg.Database.Tracing {
		opts = append(opts, observability.WithDetailedDBTracing())
	}
	return opts
}
