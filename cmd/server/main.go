package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	jwttoken "almanah/internal/jwt_token"
	"almanah/internal/ledger/handler"
	ledgermetrics "almanah/internal/ledger/metrics"
	"almanah/internal/ledger/service"
	"almanah/internal/platform/config"
	"almanah/internal/platform/httpserver"
	"almanah/internal/platform/logger"
	"almanah/internal/platform/metrics"
	"almanah/internal/platform/middleware"
	"almanah/internal/platform/otel"
	ratelimitmetrics "almanah/internal/ratelimit/metrics"
	"almanah/pkg/platform/httputil"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.Environment != config.EnvDevelopment)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, cfg.OTelServiceName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer closeWithTimeout(log, "tracing", shutdownTracing)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)
	ledgerMetrics := ledgermetrics.New(reg)

	deps, err := buildDependencies(ctx, cfg, log, ledgerMetrics)
	if err != nil {
		return err
	}
	defer deps.close(log)

	svc := service.New(deps.stores, deps.tx, deps.catalog,
		service.WithLogger(log),
		service.WithMetrics(ledgerMetrics),
		service.WithEventPublisher(deps.publisher),
	)

	cookiePolicy, err := cfg.Environment.CookiePolicy()
	if err != nil {
		return err
	}
	limiter, err := deps.rateLimiter(cfg.RateLimit, log, ratelimitmetrics.New(reg))
	if err != nil {
		return err
	}
	resolver := jwttoken.NewUserResolver(jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer))
	ledgerHandler := handler.New(svc, log, httpMetrics, resolver, middleware.AuthOptions{
		CookieName:   cfg.AuthCookieName,
		CookiePolicy: cookiePolicy,
	}, cfg.RequestTimeout, handler.WithRateLimiter(limiter))

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.health(r.Context()); err != nil {
			log.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", metrics.Handler(reg))
	ledgerHandler.Register(router)

	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting almanah", "addr", cfg.Addr, "env", cfg.Environment, "storage", deps.storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func closeWithTimeout(log *slog.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("shutdown failed", "component", name, "error", err)
	}
}
