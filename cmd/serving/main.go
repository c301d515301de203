package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/klauspost/compress/gzhttp"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/adapters/huggingface"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/api"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/boundary"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/cache"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/clickhouse"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/config"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/dataset"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/domain"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/postgres"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/scheduler"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger (JSON to stdout, optionally mirrored to a rotated file)
	logger := newLogger(cfg.LogFile)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source, closeSource, err := newSource(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to initialize dataset source", "source", cfg.DataSource, "error", err)
		os.Exit(1)
	}
	defer closeSource()

	boundaries, closeBoundaries, err := newBoundaryStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize boundary store", "source", cfg.BoundarySource, "error", err)
		os.Exit(1)
	}
	defer closeBoundaries()

	ref := dataset.Ref{Repo: cfg.DatasetRepo, File: cfg.DatasetFile, Revision: cfg.DatasetRevision}
	reports := cache.NewReports(source, cfg.CacheSize, cfg.CacheTTL)

	refresher := scheduler.New(reports, []dataset.Ref{ref}, cfg.CacheRefreshInterval)
	if err := refresher.Start(); err != nil {
		slog.Error("failed to start dataset refresh", "error", err)
		os.Exit(1)
	}
	defer refresher.Stop()

	service := domain.NewService(reports, boundaries, domain.Settings{
		Dataset:       ref,
		Boundary:      cfg.BoundaryName,
		NX:            cfg.GridNX,
		NY:            cfg.GridNY,
		Power:         cfg.IDWPower,
		K:             cfg.IDWK,
		Epsilon:       cfg.IDWEpsilon,
		MaxGridPoints: cfg.MaxGridPoints,
	})

	// Setup HTTP routes
	mux := http.NewServeMux()
	api.NewHandler(service).RegisterRoutes(mux)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      gzhttp.GzipHandler(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Port, "data_source", cfg.DataSource, "dataset", ref.Key())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	slog.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(logFile string) *slog.Logger {
	var w io.Writer = os.Stdout
	if logFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    32, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func newSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (dataset.Source, func(), error) {
	noop := func() {}
	switch cfg.DataSource {
	case "file":
		return dataset.NewFileSource(cfg.DataDir), noop, nil
	case "minio":
		client, err := storage.NewMinIOClient(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return dataset.NewObjectSource(client), noop, nil
	case "clickhouse":
		client, err := clickhouse.NewClient(clickhouse.Config{
			Host:     cfg.ClickHouseHost,
			Port:     cfg.ClickHousePort,
			User:     cfg.ClickHouseUser,
			Password: cfg.ClickHousePassword,
			Database: cfg.ClickHouseDatabase,
			BaseURL:  cfg.HFBaseURL,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	case "http":
		return huggingface.NewClient(cfg.HFBaseURL, cfg.HFToken), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}

func newBoundaryStore(ctx context.Context, cfg *config.Config) (domain.BoundaryStore, func(), error) {
	switch cfg.BoundarySource {
	case "file":
		return boundary.NewFileStore(cfg.BoundaryDir), func() {}, nil
	case "postgres":
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown boundary source %q", cfg.BoundarySource)
	}
}
