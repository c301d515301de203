package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/adapters/huggingface"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/config"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/exitcode"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/ingestion"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/model"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/storage"
)

func main() {
	// Configure the global logger
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// Parse CLI flags
	dateStr := flag.String("date", time.Now().Format("2006-01-02"), "Snapshot date (YYYY-MM-DD)")
	datasetStr := flag.String("dataset", string(model.Reportes), "Dataset name")
	repo := flag.String("repo", "danielmlvz/water-dashboard", "Dataset repository on the hub")
	revision := flag.String("revision", "main", "Dataset revision")
	runID := flag.String("run-id", "", "Run identifier (UUIDv7 from orchestration, generated when empty)")
	flag.Parse()

	// Parse and validate flags
	datasetName := model.Dataset(*datasetStr)
	if err := datasetName.Validate(); err != nil {
		slog.Error("invalid dataset", "error", err)
		fmt.Fprintf(os.Stderr, "Usage: %v\n", err)
		os.Exit(exitcode.ConfigError)
	}
	date, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		slog.Error("invalid date format", "date", *dateStr, "error", err)
		fmt.Fprintf(os.Stderr, "Usage: date must be in YYYY-MM-DD format\n")
		os.Exit(exitcode.ConfigError)
	}

	id := model.RunID(*runID)
	if id == "" {
		if id, err = model.NewRunID(); err != nil {
			slog.Error("failed to generate run-id", "error", err)
			os.Exit(exitcode.ConfigError)
		}
	}
	// Ensure run-id parses as UUIDv7 early
	if err := id.Validate(); err != nil {
		slog.Error("invalid run-id", "error", err)
		fmt.Fprintf(os.Stderr, "Usage: run-id must be a UUIDv7\n")
		os.Exit(exitcode.ConfigError)
	}

	// Ensure environment variables are loaded
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load env vars", "error", err)
	}

	// Load configuration
	cfg, err := config.LoadIngestion()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(exitcode.ConfigError)
	}

	// Create a cancellable context (for graceful shutdown)
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := huggingface.NewClient(cfg.HFBaseURL, cfg.HFToken)

	minioClient, err := storage.NewMinIOClient(ctx, storage.MinIOConfig{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		slog.Error("failed to initialize minio client", "error", err)
		os.Exit(exitcode.StorageError)
	}

	req := ingestion.FetchRequest{Dataset: datasetName, Repo: *repo, Revision: *revision, Date: date}
	if err := run(ctx, req, id, client, minioClient); err != nil {
		slog.Error("ingestion failed", "error", err, "run_id", id)
		os.Exit(exitCode(err))
	}

	slog.Info("shutdown complete")
}

func run(ctx context.Context, req ingestion.FetchRequest, runID model.RunID, fetcher ingestion.Fetcher, objects ingestion.ObjectStorage) error {
	_, err := ingestion.NewService(fetcher, objects).Ingest(ctx, req, runID)
	return err
}

// exitCode maps an ingestion failure to the code schedulers use to decide on
// retries.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, ingestion.ErrFetch):
		if huggingface.IsAPIError(err) {
			return exitcode.APIError
		}
		return exitcode.NetworkError
	case errors.Is(err, ingestion.ErrStore):
		return exitcode.StorageError
	case errors.Is(err, ingestion.ErrDecode):
		return exitcode.DataError
	default:
		return exitcode.ConfigError
	}
}
