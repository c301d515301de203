package config

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

var ingestionVars = []string{"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET"}

func TestLoadIngestion_RequiredVarsMissing(t *testing.T) {
	for _, configVar := range ingestionVars {
		t.Run(configVar, func(t *testing.T) {
			for _, v := range ingestionVars {
				t.Setenv(v, "test-value")
			}
			t.Setenv(configVar, "")

			_, err := LoadIngestion()
			if err == nil {
				t.Fatal("expected error")
			}
			if y, ok := err.(*ErrMissingRequiredEnvVar); !ok {
				t.Fatalf("expected ErrMissingRequiredEnvVar, got %s", y)
			}
			var varName string
			c, _ := fmt.Sscanf(
				err.Error(),
				"required environment variable %q is not set",
				&varName,
			)
			if c != 1 || varName != configVar {
				t.Fatalf("expected ErrMissingRequiredEnvVar to be set to %q, got %q", configVar, varName)
			}
		})
	}
}

func TestLoadIngestion_ValidConfig(t *testing.T) {
	testValue := "test-value"
	for _, configVar := range ingestionVars {
		t.Setenv(configVar, testValue)
	}
	t.Setenv("HF_TOKEN", "hf_secret")

	config, err := LoadIngestion()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if config.MinIO.Endpoint != testValue || config.MinIO.AccessKey != testValue ||
		config.MinIO.SecretKey != testValue || config.MinIO.Bucket != testValue {
		t.Fatalf("unexpected minio config: %+v", config.MinIO)
	}
	if config.MinIO.UseSSL {
		t.Fatal("expected UseSSL to be false by default")
	}
	if config.HFBaseURL != "https://huggingface.co" {
		t.Fatalf("unexpected default HF base url %q", config.HFBaseURL)
	}
	if config.HFToken != "hf_secret" {
		t.Fatalf("unexpected HF token %q", config.HFToken)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DataSource != "file" || cfg.BoundarySource != "file" {
		t.Errorf("unexpected sources %q, %q", cfg.DataSource, cfg.BoundarySource)
	}
	if cfg.CacheTTL != 6*time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.IDWEpsilon != 1e-10 {
		t.Errorf("IDWEpsilon = %v", cfg.IDWEpsilon)
	}
	if cfg.GridNX != 100 || cfg.GridNY != 100 {
		t.Errorf("grid = %dx%d", cfg.GridNX, cfg.GridNY)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GRID_NX", "200")
	t.Setenv("IDW_POWER", "0.5")
	t.Setenv("CACHE_REFRESH_INTERVAL", "30m")
	t.Setenv("DATA_SOURCE", "clickhouse")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.GridNX != 200 {
		t.Errorf("GridNX = %d", cfg.GridNX)
	}
	if cfg.IDWPower != 0.5 {
		t.Errorf("IDWPower = %v", cfg.IDWPower)
	}
	if cfg.CacheRefreshInterval != 30*time.Minute {
		t.Errorf("CacheRefreshInterval = %v", cfg.CacheRefreshInterval)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"GRID_NY", "many"},
		{"IDW_EPSILON", "tiny"},
		{"CACHE_TTL", "6 hours"},
		{"DATA_SOURCE", "ftp"},
		{"BOUNDARY_SOURCE", "shapefile"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			var invalid *ErrInvalidEnvVar
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidEnvVar, got %v", err)
			}
			if invalid.Name != tt.key {
				t.Errorf("Name = %q, want %q", invalid.Name, tt.key)
			}
		})
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("BOUNDARY_SOURCE", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	var missing *ErrMissingRequiredEnvVar
	if !errors.As(err, &missing) || missing.Name != "POSTGRES_DSN" {
		t.Fatalf("expected missing POSTGRES_DSN, got %v", err)
	}
}
