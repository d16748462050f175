package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vanshika/routemap/backend/internal/config"
	"github.com/vanshika/routemap/backend/internal/logging"
	"github.com/vanshika/routemap/backend/internal/mapfile"
)

var errMissingMap = errors.New("map file not found")

func main() {
	var (
		mapPath   = flag.String("map", "./seed-data/map.json", "Path to a JSON or YAML map document")
		serverURL = flag.String("server", "http://localhost:8080", "Base URL of the routemap server")
		timeout   = flag.Duration("timeout", 30*time.Second, "Request timeout")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	if _, err := os.Stat(*mapPath); err != nil {
		logger.Error("map resolution failed", "error", fmt.Errorf("%w: %s", errMissingMap, *mapPath))
		os.Exit(1)
	}

	g, err := mapfile.Load(*mapPath)
	if err != nil {
		logger.Error("failed to load map", "error", err, "path", *mapPath)
		os.Exit(1)
	}
	if g == nil {
		logger.Error("map file holds a null document", "path", *mapPath)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	start := time.Now()
	logger.Info("uploading map", "nodes", len(g.Nodes), "edges", len(g.Edges), "server", *serverURL)

	var body bytes.Buffer
	if err := mapfile.Encode(&body, *g, mapfile.FormatJSON); err != nil {
		logger.Error("failed to encode map", "error", err)
		os.Exit(1)
	}

	if err := upload(ctx, *serverURL, cfg.Auth.ReadWriteKey, &body); err != nil {
		logger.Error("map upload failed", "error", err)
		os.Exit(1)
	}

	logger.Info("upload complete", "duration", time.Since(start).String(), "nodes", len(g.Nodes), "edges", len(g.Edges))
}

func upload(ctx context.Context, baseURL, apiKey string, body io.Reader) error {
	endpoint := strings.TrimRight(baseURL, "/") + "/api/Map/SetMap"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
