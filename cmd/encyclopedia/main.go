package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rehci/encyclopedia/internal/config"
	dbRedis "github.com/rehci/encyclopedia/internal/db/redis"
	logpkg "github.com/rehci/encyclopedia/internal/logger"
	"github.com/rehci/encyclopedia/internal/metrics"
	articlerepo "github.com/rehci/encyclopedia/internal/repository/article"
	indexrepo "github.com/rehci/encyclopedia/internal/repository/index"
	chiTransport "github.com/rehci/encyclopedia/internal/transport/chi"
	cataloguc "github.com/rehci/encyclopedia/internal/usecase/catalog"
	searchuc "github.com/rehci/encyclopedia/internal/usecase/search"
	"github.com/rehci/encyclopedia/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting encyclopedia API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("content_dir", cfg.Content.Dir),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	source := articlerepo.New(cfg.Content.Dir, cfg.Content.Includes, cfg.Content.Excludes)

	// The remote index is optional. Without database addrs every query
	// is answered by the local engine; with them the service still
	// starts even if Redis is down and degrades to the local engine.
	var index searchuc.Index
	ctx := context.Background()
	if len(cfg.Database.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, cfg.Database.Readiness()); err != nil {
			logger.Warn("Database not ready, queries fall back to the local engine", zap.Error(err))
		} else {
			logger.Info("Connected to database")
		}

		index = indexrepo.New(store, cfg.Index.Name, cfg.Index.KeyPrefix, cfg.Index.MaxResults)
	} else {
		logger.Info("No database configured, running in local-only mode")
	}

	metrics.RegisterSearchMetrics()

	searchSvc := searchuc.New(source, index, logger).
		WithRemoteTimeout(cfg.Index.QueryTimeout()).
		WithSyncBatchSize(cfg.Index.SyncBatchSize).
		WithMetrics(metrics.SearchesTotal, metrics.IndexState)
	catalogSvc := cataloguc.New(source)

	// Best-effort provisioning at startup. A failure degrades to the
	// local engine instead of blocking boot.
	if index != nil {
		if err := searchSvc.Provision(logpkg.WithContext(ctx, logger)); err != nil {
			logger.Warn("Index provisioning failed", zap.Error(err))
		}
	}

	server := chiTransport.NewServer(searchSvc, catalogSvc, logger).
		WithMaxResults(cfg.Index.MaxResults)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
