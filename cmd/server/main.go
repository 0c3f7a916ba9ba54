// Command vector-server runs the HNSW collection behind a REST API,
// restoring it from an on-disk store at startup and saving a snapshot back
// to that store on shutdown.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/therealutkarshpriyadarshi/vector/pkg/api/rest"
	"github.com/therealutkarshpriyadarshi/vector/pkg/api/rest/middleware"
	"github.com/therealutkarshpriyadarshi/vector/pkg/config"
	"github.com/therealutkarshpriyadarshi/vector/pkg/hnsw"
	"github.com/therealutkarshpriyadarshi/vector/pkg/observability"
	"github.com/therealutkarshpriyadarshi/vector/pkg/store"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version and exit")
		logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("vector-server %s (%s)\n", version, commit)
		os.Exit(0)
	}

	logger := observability.NewConsoleLogger(observability.ParseLevel(*logLevel))
	observability.SetGlobal(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading configuration")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	metrics := observability.NewMetrics()

	collection, st := openCollection(cfg, logger)
	defer st.Close()

	server := rest.NewServer(rest.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		CORSEnabled: true,
		CORSOrigins: []string{"*"},
		Auth: middleware.AuthConfig{
			Enabled:   cfg.Server.JWTSecret != "change-me",
			JWTSecret: cfg.Server.JWTSecret,
		},
		RateLimit: middleware.RateLimitConfig{
			Enabled:        true,
			RequestsPerSec: cfg.Server.RateLimitRPS,
			Burst:          cfg.Server.RateLimitBurst,
			PerIP:          true,
		},
	}, collection, metrics, logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info().Str("addr", cfg.Server.Address()).Msg("server ready")
	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-errChan:
		logger.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error().Err(err).Msg("error stopping server")
	}

	if err := persistCollection(cfg, st, collection, logger); err != nil {
		logger.Error().Err(err).Msg("error saving final snapshot")
	}

	logger.Info().Msg("shutdown complete")
}

// openCollection restores the collection from the store's last snapshot,
// or creates an empty one from the configured HNSW knobs; its dimension is
// fixed by the first record inserted, not by cfg.HNSW.Dimensions.
func openCollection(cfg *config.Config, logger zerolog.Logger) (*hnsw.Collection[json.RawMessage], *store.Store) {
	st, err := store.Open(cfg.Store.DataDir, cfg.Store.SyncWrites)
	if err != nil {
		logger.Fatal().Err(err).Msg("opening store")
	}

	hnswConfig := hnsw.Config{
		M:              cfg.HNSW.M,
		EfConstruction: cfg.HNSW.EfConstruction,
		EfSearch:       cfg.HNSW.EfSearch,
		Ml:             cfg.HNSW.Ml,
	}

	if st.Exists(cfg.Store.SnapshotKey) {
		snap, err := store.LoadSnapshot[json.RawMessage](st, cfg.Store.SnapshotKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("loading snapshot")
		}
		logger.Info().Int("size", len(snap.Data)).Msg("restored collection from snapshot")
		return hnsw.FromSnapshot[json.RawMessage](hnsw.Euclidean, snap), st
	}

	logger.Info().Msg("starting with an empty collection")
	return hnsw.New[json.RawMessage](hnswConfig, hnsw.Euclidean), st
}

func persistCollection(cfg *config.Config, st *store.Store, collection *hnsw.Collection[json.RawMessage], logger zerolog.Logger) error {
	if collection.IsEmpty() {
		return nil
	}
	snap := collection.ToSnapshot()
	if err := store.SaveSnapshot(st, cfg.Store.SnapshotKey, snap); err != nil {
		logger.Warn().Err(err).Msg("saving snapshot failed")
		return err
	}
	logger.Info().Int("size", collection.Len()).Msg("saved snapshot")
	return nil
}
