package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ntentasd/motorsim/internal/cache"
	"github.com/ntentasd/motorsim/internal/config"
	"github.com/ntentasd/motorsim/internal/db"
	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/internal/logging"
	"github.com/ntentasd/motorsim/internal/model"
	"github.com/ntentasd/motorsim/internal/monitor"
	"github.com/ntentasd/motorsim/internal/predict"
	"github.com/ntentasd/motorsim/internal/routes"
	"github.com/ntentasd/motorsim/internal/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, "motorsim-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.TempoEndpoint, "motorsim-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to init tracing")
	}
	defer shutdownTracer(context.Background())

	bundle, err := model.LoadBundle(filepath.Join(cfg.ModelDir, model.BundleFile))
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to load model bundle")
	}
	svc, err := predict.New(bundle, generator.NewSource(uint64(time.Now().UnixNano())))
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid model bundle")
	}

	mon, err := monitor.New(cfg.HistorySize)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid history size")
	}

	c, err := cache.Open(ctx, cache.Options{
		ValkeyNodes:   cfg.ValkeyNodes,
		ValkeyService: cfg.ValkeyService,
		MemcachedAddr: cfg.MemcachedAddr,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to open cache")
	}
	defer c.Close()

	app := routes.New(svc, mon, c, nil, cfg.DataDir, cfg.CacheTTL, logger)

	if len(cfg.ScyllaNodes) > 0 {
		store, err := db.Connect(cfg.ScyllaNodes, cfg.ScyllaKeyspace)
		if err != nil {
			logger.Fatal().Err(err).Msg("unable to connect to scylla")
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("unable to migrate schema")
		}
		app.Store = store
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           routes.NewMux(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().Str("addr", cfg.HTTPAddr).Bool("scylla", app.Store != nil).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("server stopped")
}
