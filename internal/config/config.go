package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the serving configuration.
type Config struct {
	Port    string
	LogFile string

	// Where report rows come from: file, minio, clickhouse or http.
	DataSource      string
	DataDir         string
	DatasetRepo     string
	DatasetFile     string
	DatasetRevision string

	// Where the city boundary comes from: file or postgres.
	BoundarySource string
	BoundaryDir    string
	BoundaryName   string
	PostgresDSN    string

	ClickHouseHost     string
	ClickHousePort     string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseDatabase string

	MinIO MinIOConfig

	HFBaseURL string
	HFToken   string

	CacheTTL             time.Duration
	CacheSize            int
	CacheRefreshInterval time.Duration

	GridNX        int
	GridNY        int
	IDWPower      float64
	IDWK          int
	IDWEpsilon    float64
	MaxGridPoints int
}

// MinIOConfig holds object storage settings shared by both binaries.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// IngestionConfig holds the ingestion CLI configuration.
type IngestionConfig struct {
	HFBaseURL string
	HFToken   string
	MinIO     MinIOConfig
}

type ErrMissingRequiredEnvVar struct {
	Name string
}

func (e *ErrMissingRequiredEnvVar) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.Name)
}

type ErrInvalidEnvVar struct {
	Name  string
	Value string
	Err   error
}

func (e *ErrInvalidEnvVar) Error() string {
	return fmt.Sprintf("environment variable %q has invalid value %q: %v", e.Name, e.Value, e.Err)
}

func (e *ErrInvalidEnvVar) Unwrap() error {
	return e.Err
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser collects the first conversion error so Load can read every
// variable in one pass.
type parser struct {
	err error
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return f
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return d
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = &ErrInvalidEnvVar{Name: key, Value: value, Err: err}
	}
}

func loadMinIO() MinIOConfig {
	return MinIOConfig{
		Endpoint:  os.Getenv("MINIO_ENDPOINT"),
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		Bucket:    getEnv("MINIO_BUCKET", "water-dashboard"),
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}
}

// Load reads the serving configuration from environment variables.
func Load() (*Config, error) {
	var p parser
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		LogFile: os.Getenv("LOG_FILE"),

		DataSource:      getEnv("DATA_SOURCE", "file"),
		DataDir:         getEnv("DATA_DIR", "data"),
		DatasetRepo:     getEnv("DATASET_REPO", "danielmlvz/water-dashboard"),
		DatasetFile:     getEnv("DATASET_FILE", "reportes/part-0.parquet"),
		DatasetRevision: getEnv("DATASET_REVISION", "main"),

		BoundarySource: getEnv("BOUNDARY_SOURCE", "file"),
		BoundaryDir:    getEnv("BOUNDARY_DIR", "data/boundaries"),
		BoundaryName:   getEnv("BOUNDARY_NAME", "cdmx"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),

		ClickHouseHost:     getEnv("CLICKHOUSE_HOST", "localhost"),
		ClickHousePort:     getEnv("CLICKHOUSE_PORT", "9000"),
		ClickHouseUser:     getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),

		MinIO: loadMinIO(),

		HFBaseURL: getEnv("HF_BASE_URL", "https://huggingface.co"),
		HFToken:   os.Getenv("HF_TOKEN"),

		CacheTTL:             p.duration("CACHE_TTL", 6*time.Hour),
		CacheSize:            p.int("CACHE_SIZE", 16),
		CacheRefreshInterval: p.duration("CACHE_REFRESH_INTERVAL", 0),

		GridNX:        p.int("GRID_NX", 100),
		GridNY:        p.int("GRID_NY", 100),
		IDWPower:      p.float("IDW_POWER", 1),
		IDWK:          p.int("IDW_K", 0),
		IDWEpsilon:    p.float("IDW_EPSILON", 1e-10),
		MaxGridPoints: p.int("MAX_GRID_POINTS", 40000),
	}
	if p.err != nil {
		return nil, p.err
	}

	switch cfg.DataSource {
	case "file", "minio", "clickhouse", "http":
	default:
		return nil, &ErrInvalidEnvVar{Name: "DATA_SOURCE", Value: cfg.DataSource, Err: fmt.Errorf("want file, minio, clickhouse or http")}
	}
	switch cfg.BoundarySource {
	case "file":
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, &ErrMissingRequiredEnvVar{Name: "POSTGRES_DSN"}
		}
	default:
		return nil, &ErrInvalidEnvVar{Name: "BOUNDARY_SOURCE", Value: cfg.BoundarySource, Err: fmt.Errorf("want file or postgres")}
	}
	if cfg.DataSource == "minio" && cfg.MinIO.Endpoint == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ENDPOINT"}
	}

	return cfg, nil
}

// LoadIngestion reads the ingestion configuration from environment variables.
// Returns an error if required variables are missing.
func LoadIngestion() (*IngestionConfig, error) {
	config := IngestionConfig{
		HFBaseURL: getEnv("HF_BASE_URL", "https://huggingface.co"),
		HFToken:   os.Getenv("HF_TOKEN"),
		MinIO:     loadMinIO(),
	}
	if config.MinIO.Endpoint == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ENDPOINT"}
	}
	if config.MinIO.AccessKey == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ACCESS_KEY"}
	}
	if config.MinIO.SecretKey == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_SECRET_KEY"}
	}
	if os.Getenv("MINIO_BUCKET") == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_BUCKET"}
	}

	return &config, nil
}
