package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Dataset represents a known published dataset.
type Dataset string

const (
	Reportes        Dataset = "reportes"
	DensidadHogares Dataset = "densidadHogares"
	ConsumoAgua     Dataset = "consumoAgua"
)

var knownDatasets = map[Dataset]string{
	Reportes:        "reportes/part-0.parquet",
	DensidadHogares: "densidadHogares/part-0.parquet",
	ConsumoAgua:     "consumoAgua/part-0.parquet",
}

// Validate checks that the dataset is one the dashboard publishes.
func (d Dataset) Validate() error {
	if _, ok := knownDatasets[d]; !ok {
		return fmt.Errorf("unknown dataset %q", string(d))
	}
	return nil
}

// File returns the dataset file path inside the dataset repository.
func (d Dataset) File() string {
	return knownDatasets[d]
}

// RunID represents a UUIDv7 run identifier from orchestration.
type RunID string

// Validate checks that the RunID is a valid UUIDv7.
func (r RunID) Validate() error {
	if r == "" {
		return fmt.Errorf("run-id cannot be empty")
	}
	id, err := uuid.Parse(string(r))
	if err != nil {
		return fmt.Errorf("run-id must be a valid UUID: %w", err)
	}
	if id.Version() != uuid.Version(7) {
		return fmt.Errorf("run-id must be a UUIDv7, got v%d", id.Version())
	}
	return nil
}

// String returns the run ID as a string.
func (r RunID) String() string {
	return string(r)
}

// NewRunID generates a fresh UUIDv7 run identifier.
func NewRunID() (RunID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate run-id: %w", err)
	}
	return RunID(id.String()), nil
}
