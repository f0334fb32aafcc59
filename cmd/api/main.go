package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inventrackpro/inventrack/internal/config"
	"github.com/inventrackpro/inventrack/internal/db"
	httpx "github.com/inventrackpro/inventrack/internal/http"
	"github.com/inventrackpro/inventrack/internal/observability"
	"github.com/inventrackpro/inventrack/internal/repo/postgres"
	"github.com/inventrackpro/inventrack/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// tracing (optional; only when a collector endpoint is configured)
	var traceShutdown func(context.Context) error

	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "inventrack-api", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		traceShutdown = shutdown
	}

	// database

	migrateCtx, cancelMigrate := config.WithTimeout(30 * time.Second)

	err := db.RunMigrations(migrateCtx, cfg.DBURL)

	cancelMigrate()

	if err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	seedCtx, cancelSeed := config.WithTimeout(10 * time.Second)

	err = db.EnsureDemoUser(seedCtx, pool, cfg)

	cancelSeed()

	if err != nil {
		log.Error("demo seed failed", "err", err)
		os.Exit(1)
	}

	// session store

	sessions := session.NewRedisStore(session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer sessions.Close()

	pingCtx, cancelPing := config.WithTimeout(2 * time.Second)

	err = sessions.Ping(pingCtx)

	cancelPing()

	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}

	// metrics

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	prom := observability.NewProm(registry)

	// readiness probe checks both stores
	ping := func() error {
		ctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return err
		}

		return sessions.Ping(ctx)
	}

	// wire up repositories and the router

	deps := httpx.Deps{
		Users:    postgres.NewUsersRepo(pool, prom),
		Products: postgres.NewProductsRepo(pool, prom),
		Sessions: sessions,
		Prom:     prom,
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Ping:     ping,
	}

	router := httpx.NewRouter(log, cfg, deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		if traceShutdown != nil {
			_ = traceShutdown(ctx)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
