package domain

import (
	"context"
	"errors"

	"github.com/paulmach/orb"
)

var (
	ErrBoundaryNotFound = errors.New("boundary not found")
	ErrInvalidBoundary  = errors.New("invalid boundary")
	ErrGridTooLarge     = errors.New("grid too large")
)

// BoundaryStore loads named region boundaries.
type BoundaryStore interface {
	Boundary(ctx context.Context, name string) (orb.Geometry, error)
	Names(ctx context.Context) ([]string, error)
}
