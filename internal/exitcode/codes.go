package exitcode

// Exit codes for the ingestion CLI.
// Schedulers can use these to decide retry strategy.
const (
	// Success - dataset mirrored successfully
	Success = 0

	// ConfigError - missing or invalid configuration or flags
	// Don't retry: fix the config first
	ConfigError = 1

	// NetworkError - transient network failure (timeout, DNS, open circuit)
	// Retry with backoff
	NetworkError = 2

	// APIError - dataset hub returned an error (auth, missing file)
	// Check logs, may need manual intervention
	APIError = 3

	// StorageError - failed to write to MinIO/S3
	// Retry with backoff
	StorageError = 4

	// DataError - downloaded file could not be decoded into report rows
	// Don't retry: investigate the data
	DataError = 5
)
