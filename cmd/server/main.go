package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chassisd/internal/audit"
	"chassisd/internal/chassis/factory"
	"chassisd/internal/chassis/handler"
	"chassisd/internal/chassis/metrics"
	"chassisd/internal/chassis/prefixdb"
	"chassisd/internal/chassis/store/sequence"
	"chassisd/internal/platform/config"
	"chassisd/internal/platform/httpserver"
	"chassisd/internal/platform/logger"
	"chassisd/internal/platform/postgres"
	platformredis "chassisd/internal/platform/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps
// the server lifecycle small. Business logic lives in the domain packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Error("sequence store init failed", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	prefixes := prefixdb.New()
	if prefixes.Stats().Records == 0 {
		log.Warn("prefix dataset is empty; from-prefix issuance will fail")
	}

	// Audit events flow through a buffered sink so issuance never waits on
	// persistence; the worker drains until shutdown.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	auditSink := audit.NewSink(256)
	go func() {
		err := audit.NewWorker(audit.NewMemoryStore(), auditSink.Inbox()).Run(workerCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	auditor := audit.NewPublisher(auditSink)
	f, err := factory.New(store, prefixes,
		factory.WithLogger(log),
		factory.WithMetrics(metrics.New()),
		factory.WithAudit(auditor),
	)
	if err != nil {
		log.Error("factory init failed", "error", err)
		os.Exit(1)
	}

	h := handler.New(f, log)
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	h.Register(r)
	h.RegisterAdmin(r, cfg.AdminToken)

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting chassisd", "addr", cfg.Addr, "backend", string(cfg.Backend),
		"prefix_records", prefixes.Stats().Records)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildStore selects the sequence backend from configuration. The cleanup
// function closes whatever connection the backend holds.
func buildStore(cfg config.Server) (sequence.Store, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case config.BackendMemory:
		return sequence.NewMemory(), noop, nil
	case config.BackendFile:
		s, err := sequence.NewFile(cfg.SequenceFile)
		return s, noop, err
	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		s := sequence.NewPostgres(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		return s, func() { db.Close() }, nil
	case config.BackendRedis:
		client, err := platformredis.Connect(cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		if client == nil {
			return nil, noop, errors.New("REDIS_URL is required for the redis backend")
		}
		return sequence.NewRedis(client), func() { client.Close() }, nil
	default:
		s, err := sequence.NewFile(cfg.SequenceFile)
		return s, noop, err
	}
}
