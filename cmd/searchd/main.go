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
	"go.uber.org/zap"

	"github.com/caseflow/searchd/internal/config"
	dbRedis "github.com/caseflow/searchd/internal/db/redis"
	"github.com/caseflow/searchd/internal/domain"
	logpkg "github.com/caseflow/searchd/internal/logger"
	"github.com/caseflow/searchd/internal/metrics"
	auditrepo "github.com/caseflow/searchd/internal/repository/audit"
	documentsrepo "github.com/caseflow/searchd/internal/repository/documents"
	rbacrepo "github.com/caseflow/searchd/internal/repository/rbac"
	recordsrepo "github.com/caseflow/searchd/internal/repository/records"
	"github.com/caseflow/searchd/internal/repository/schema"
	vectorsrepo "github.com/caseflow/searchd/internal/repository/vectors"
	chiTransport "github.com/caseflow/searchd/internal/transport/chi"
	openaiEmb "github.com/caseflow/searchd/internal/transport/openai"
	accessuc "github.com/caseflow/searchd/internal/usecase/access"
	docsearchuc "github.com/caseflow/searchd/internal/usecase/docsearch"
	indexeruc "github.com/caseflow/searchd/internal/usecase/indexer"
	"github.com/caseflow/searchd/internal/usecase/relevance"
	searchuc "github.com/caseflow/searchd/internal/usecase/search"
	sourcesuc "github.com/caseflow/searchd/internal/usecase/sources"
	"github.com/caseflow/searchd/internal/version"
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

	logger.Info("Starting searchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Both supported drivers speak RESP; one rueidis store covers them.
	switch cfg.Database.Driver {
	case "valkey", "redis":
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	if err := schema.EnsureIndexes(ctx, store, cfg.Embedding.Dimensions); err != nil {
		logger.Fatal("Failed to ensure search indexes", zap.Error(err))
	}

	// Register domain metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterIndexerMetrics()

	// Embedding provider is optional: without it, semantic and hybrid
	// searches degrade to fulltext and the indexer rejects work.
	var embedder domain.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			User:       cfg.Embedding.User,
			Provider:   cfg.Embedding.Provider,
			Logger:     logger,
		})
		logger.Info("Embedder created",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	} else {
		logger.Warn("No embedding API key configured; semantic search disabled")
	}

	// Repositories
	rbacRepo := rbacrepo.New(store)
	recordsRepo := recordsrepo.New(store)
	documentsRepo := documentsrepo.New(store)
	vectorsRepo := vectorsrepo.New(store)
	auditRepo := auditrepo.New(store)

	// Use case services. Team resolution is an integration point with the
	// org service; not wired here.
	accessSvc := accessuc.New(rbacRepo, nil)
	rowAdapter := sourcesuc.NewAdapter(recordsRepo)
	docSvc := docsearchuc.New(documentsRepo, embedder, docsearchuc.Config{
		LexicalWeight:  cfg.Search.LexicalWeight,
		SemanticWeight: cfg.Search.SemanticWeight,
	})

	ranking := relevance.Config{
		LexicalWeight:  cfg.Search.LexicalWeight,
		SemanticWeight: cfg.Search.SemanticWeight,
		TitleBoost:     cfg.Search.TitleBoost,
		RecencyBoost:   cfg.Search.RecencyBoost,
		HalfLifeDays:   cfg.Search.HalfLifeDays,
		MinScore:       domain.DefaultMinScore,
		MaxResults:     cfg.Search.MaxResults,
	}
	searchSvc := searchuc.New(accessSvc, rowAdapter, docSvc, auditRepo, ranking)

	indexerSvc := indexeruc.New(vectorsRepo, embedder, indexeruc.Config{
		MaxConcurrent: cfg.Indexer.MaxConcurrent,
		ChunkDelay:    time.Duration(cfg.Indexer.ChunkDelayMs) * time.Millisecond,
		BatchSize:     cfg.Indexer.BatchSize,
		BatchDelay:    time.Duration(cfg.Indexer.BatchDelayMs) * time.Millisecond,
		RetryAttempts: cfg.Indexer.RetryAttempts,
		RetryBaseWait: time.Duration(cfg.Indexer.RetryBaseWaitMs) * time.Millisecond,
	})

	server := chiTransport.NewServer(searchSvc, indexerSvc, store, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
						"code":    "internal_error",
						"message": "internal error",
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
