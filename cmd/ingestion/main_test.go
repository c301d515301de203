package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/adapters/huggingface"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/exitcode"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/ingestion"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/model"
)

type stubFetcher struct{}

func (s stubFetcher) Fetch(ctx context.Context, req ingestion.FetchRequest) (ingestion.FetchResult, error) {
	return ingestion.FetchResult{}, errors.New("stub fetch error")
}

type discardStorage struct {
	err error
}

func (s discardStorage) Put(ctx context.Context, key string, data io.Reader) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.Copy(io.Discard, data)
	return err
}

func (s discardStorage) Copy(ctx context.Context, srcKey, dstKey string) error {
	return s.err
}

var (
	testRequest = ingestion.FetchRequest{Dataset: model.Reportes, Repo: "r", Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)}
	testRunID   = model.RunID("01890c24-905b-7122-b170-b60814e6ee06")
)

func TestRun_FetchErrorIsNetworkError(t *testing.T) {
	err := run(t.Context(), testRequest, testRunID, stubFetcher{}, discardStorage{})
	if err == nil {
		t.Fatalf("expected error from stub fetcher, got nil")
	}
	if code := exitCode(err); code != exitcode.NetworkError {
		t.Errorf("exitCode() = %d, want %d", code, exitcode.NetworkError)
	}
}

func TestExitCode(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer notFound.Close()
	csv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("garbage"))
	}))
	defer csv.Close()

	tests := []struct {
		name    string
		fetcher ingestion.Fetcher
		storage ingestion.ObjectStorage
		runID   model.RunID
		want    int
	}{
		{
			name:    "hub error",
			fetcher: huggingface.NewClient(notFound.URL, ""),
			storage: discardStorage{},
			runID:   testRunID,
			want:    exitcode.APIError,
		},
		{
			name:    "storage error",
			fetcher: huggingface.NewClient(csv.URL, ""),
			storage: discardStorage{err: errors.New("bucket missing")},
			runID:   testRunID,
			want:    exitcode.StorageError,
		},
		{
			name:    "undecodable file",
			fetcher: huggingface.NewClient(csv.URL, ""),
			storage: discardStorage{},
			runID:   testRunID,
			want:    exitcode.DataError,
		},
		{
			name:    "invalid run id",
			fetcher: stubFetcher{},
			storage: discardStorage{},
			runID:   "nope",
			want:    exitcode.ConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t.Context(), testRequest, tt.runID, tt.fetcher, tt.storage)
			if code := exitCode(err); code != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", err, code, tt.want)
			}
		})
	}

	if exitCode(nil) != exitcode.Success {
		t.Error("nil error should map to success")
	}
}
