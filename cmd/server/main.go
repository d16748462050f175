package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vanshika/routemap/backend/internal/config"
	"github.com/vanshika/routemap/backend/internal/graph"
	"github.com/vanshika/routemap/backend/internal/logging"
	"github.com/vanshika/routemap/backend/internal/mapfile"
	"github.com/vanshika/routemap/backend/internal/repository"
	"github.com/vanshika/routemap/backend/internal/server"
	"github.com/vanshika/routemap/backend/internal/service"
	"github.com/vanshika/routemap/backend/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if graphClient != nil {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}
	}()

	var (
		mirror       service.Mirror
		mirrorStatus server.MirrorStatus
	)
	if graphClient != nil {
		repo := repository.New(graphClient)
		mirror = repo
		mirrorStatus = repo
	}

	mapService := service.NewMapService(store.New(), mirror, logger).
		WithQueryTimeout(cfg.Engine.QueryTimeout).
		WithBatchWorkers(cfg.Engine.BatchWorkers)

	if err := seedMap(ctx, logger, mapService, cfg.Map.SeedPath); err != nil {
		logger.Error("failed to seed map", "error", err, "path", cfg.Map.SeedPath)
		os.Exit(1)
	}

	apiHandlers := server.NewAPIHandlers(logger, mapService).WithMaxBatchSize(cfg.Engine.MaxBatchSize)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.GraphHealthService{Client: graphClient},
		Maps:             mapService,
		Mirror:           mirrorStatus,
		API:              apiHandlers,
		Auth:             cfg.Auth,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildGraphClient returns a nil client when no graph URI is configured; the
// Neo4j mirror is optional.
func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		logger.Info("graph mirror disabled", "reason", graph.ErrMissingURI.Error())
		return nil, nil
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("graph mirror enabled", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}

func seedMap(ctx context.Context, logger *slog.Logger, svc *service.MapService, path string) error {
	if path == "" {
		return nil
	}
	g, err := mapfile.Load(path)
	if err != nil {
		return err
	}
	summary, err := svc.SetMap(ctx, g)
	if err != nil {
		return err
	}
	logger.Info("seeded map", "path", path, "nodes", summary.NodeCount, "edges", summary.EdgeCount)
	return nil
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
