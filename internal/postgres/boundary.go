package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/paulmach/orb"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/boundary"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/domain"
)

// BoundaryStore reads region boundaries stored as WKT in the
// region_boundaries table.
type BoundaryStore struct {
	db *sql.DB
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*BoundaryStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewBoundaryStore(db), nil
}

func NewBoundaryStore(db *sql.DB) *BoundaryStore {
	return &BoundaryStore{db: db}
}

func (s *BoundaryStore) Boundary(ctx context.Context, name string) (orb.Geometry, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT wkt FROM region_boundaries WHERE name = $1`,
		name,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", domain.ErrBoundaryNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query boundary %q: %w", name, err)
	}

	mp, err := boundary.ParseWKT(text)
	if err != nil {
		return nil, fmt.Errorf("boundary %q: %w", name, err)
	}
	slog.DebugContext(ctx, "boundary loaded from postgres", "name", name, "polygons", len(mp))
	return mp, nil
}

// Names lists the stored boundary names in alphabetical order.
func (s *BoundaryStore) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM region_boundaries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query boundary names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan boundary name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *BoundaryStore) Close() error {
	return s.db.Close()
}
