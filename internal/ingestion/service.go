package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/dataset"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/model"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/storage"
)

// Failure stages, so callers can pick an exit code.
var (
	ErrFetch  = errors.New("fetch")
	ErrStore  = errors.New("store")
	ErrDecode = errors.New("decode")
)

// FetchRequest contains input parameters for fetching a dataset.
type FetchRequest struct {
	Dataset  model.Dataset
	Repo     string
	Revision string
	Date     time.Time
}

// FetchResult wraps the fetched stream and metadata derived during fetch.
type FetchResult struct {
	Body      io.ReadCloser
	Source    string
	Extension string
}

// Fetcher retrieves raw data for a given request.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (FetchResult, error)
}

// ObjectStorage writes data streams to object storage.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data io.Reader) error
	Copy(ctx context.Context, srcKey, dstKey string) error
}

// Service orchestrates ingestion steps: fetch, store the raw file, then store
// a decoded snapshot and point latest at it.
type Service struct {
	fetcher       Fetcher
	objectStorage ObjectStorage
}

func NewService(fetcher Fetcher, objectStorage ObjectStorage) *Service {
	return &Service{fetcher: fetcher, objectStorage: objectStorage}
}

// Ingest mirrors one dataset and returns the key of the stored snapshot.
func (s *Service) Ingest(ctx context.Context, req FetchRequest, runID model.RunID) (string, error) {
	if err := runID.Validate(); err != nil {
		return "", err
	}
	if err := req.Dataset.Validate(); err != nil {
		return "", err
	}

	result, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer result.Body.Close()

	key := storage.ObjectKey{
		Source:    result.Source,
		Dataset:   req.Dataset,
		Date:      req.Date.Format("2006-01-02"),
		RunID:     runID,
		Extension: result.Extension,
	}

	slog.DebugContext(ctx, "ingestion started", "dataset", req.Dataset, "date", key.Date, "run_id", runID, "key", key.Key())

	// The raw stream is stored and kept in memory for decoding in one pass.
	var raw bytes.Buffer
	if err := s.objectStorage.Put(ctx, key.Key(), io.TeeReader(result.Body, &raw)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStore, err)
	}

	rows, err := dataset.Decode(result.Extension, &raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrDecode, key.Key(), err)
	}

	var snapshot bytes.Buffer
	if err := dataset.EncodeSnapshot(&snapshot, rows); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	snapshotKey := key.WithExtension(dataset.FormatSnapshot)
	if err := s.objectStorage.Put(ctx, snapshotKey.Key(), &snapshot); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStore, err)
	}
	if err := s.objectStorage.Copy(ctx, snapshotKey.Key(), snapshotKey.Latest()); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStore, err)
	}

	slog.InfoContext(ctx, "ingestion complete",
		"key", key.Key(),
		"snapshot", snapshotKey.Key(),
		"latest", snapshotKey.Latest(),
		"rows", len(rows),
		"run_id", runID,
	)
	return snapshotKey.Key(), nil
}
