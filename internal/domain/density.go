package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/dataset"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/spatial"
)

type ErrYearNotFound struct {
	Year int
}

func (e *ErrYearNotFound) Error() string {
	return fmt.Sprintf("no reports for year %d", e.Year)
}

// Settings are the service defaults, applied to request fields left at zero.
type Settings struct {
	Dataset  dataset.Ref
	Boundary string

	NX, NY  int
	Power   float64
	K       int
	Epsilon float64

	// MaxGridPoints caps NX*NY per request; zero disables the cap.
	MaxGridPoints int
}

type DensityRequest struct {
	Year  int
	NX    int
	NY    int
	Power float64
	K     int
}

type DensityResult struct {
	Year     int
	Known    int
	NX, NY   int
	ColorMin float64
	ColorMax float64
	Points   []spatial.InterpolatedPoint
}

type Service struct {
	reports    dataset.Source
	boundaries BoundaryStore
	settings   Settings
}

func NewService(reports dataset.Source, boundaries BoundaryStore, settings Settings) *Service {
	if settings.Power == 0 {
		settings.Power = spatial.DefaultPower
	}
	if settings.Epsilon == 0 {
		settings.Epsilon = spatial.DefaultEpsilon
	}
	return &Service{reports: reports, boundaries: boundaries, settings: settings}
}

// Density interpolates one year of report counts over the configured region.
func (s *Service) Density(ctx context.Context, req DensityRequest) (*DensityResult, error) {
	req = s.withDefaults(req)
	if limit := s.settings.MaxGridPoints; limit > 0 && req.NX > 0 && req.NY > 0 && req.NX*req.NY > limit {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d points", ErrGridTooLarge, req.NX, req.NY, limit)
	}

	start := time.Now()
	var (
		rows     []dataset.Report
		boundary orb.Geometry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.reports.Reports(gctx, s.settings.Dataset)
		if err != nil {
			return fmt.Errorf("loading reports: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		boundary, err = s.boundaries.Boundary(gctx, s.settings.Boundary)
		if err != nil {
			return fmt.Errorf("loading boundary %q: %w", s.settings.Boundary, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	known := dataset.KnownPoints(rows, req.Year)
	if len(known) == 0 {
		return nil, &ErrYearNotFound{Year: req.Year}
	}

	region, err := spatial.NewRegion(boundary)
	if err != nil {
		// A broken stored boundary is a server fault, not a bad request.
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidBoundary, s.settings.Boundary, err)
	}

	// Only a K the client asked for may exceed the known points.
	k := req.K
	if k == 0 {
		k = s.settings.K
		if k <= 0 {
			k = spatial.DefaultK
		}
		k = min(k, len(known))
	}
	pipeline := spatial.Pipeline{
		Interpolator: spatial.NewInterpolator(
			spatial.WithPower(req.Power),
			spatial.WithK(k),
			spatial.WithEpsilon(s.settings.Epsilon),
		),
		NX: req.NX,
		NY: req.NY,
	}
	points, err := pipeline.Run(known, region)
	if err != nil {
		return nil, err
	}

	result := &DensityResult{
		Year:   req.Year,
		Known:  len(known),
		NX:     req.NX,
		NY:     req.NY,
		Points: points,
	}
	if len(points) > 0 {
		result.ColorMin, result.ColorMax, err = spatial.ColorRange(spatial.PointValues(points), spatial.DefaultColorLow, spatial.DefaultColorHigh)
		if err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "density computed",
		"year", req.Year,
		"known", len(known),
		"nx", req.NX,
		"ny", req.NY,
		"k", k,
		"points", len(points),
		"duration", time.Since(start),
	)
	return result, nil
}

func (s *Service) withDefaults(req DensityRequest) DensityRequest {
	if req.NX == 0 {
		req.NX = s.settings.NX
	}
	if req.NY == 0 {
		req.NY = s.settings.NY
	}
	if req.Power == 0 {
		req.Power = s.settings.Power
	}
	return req
}

// Years lists the years present in the dataset.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	rows, err := s.reports.Reports(ctx, s.settings.Dataset)
	if err != nil {
		return nil, fmt.Errorf("loading reports: %w", err)
	}
	return dataset.Years(rows), nil
}

// Summary totals one year of reports per alcaldía.
func (s *Service) Summary(ctx context.Context, year int) ([]dataset.AlcaldiaTotal, error) {
	rows, err := s.reports.Reports(ctx, s.settings.Dataset)
	if err != nil {
		return nil, fmt.Errorf("loading reports: %w", err)
	}
	summary := dataset.SummarizeByAlcaldia(rows, year)
	if len(summary) == 0 {
		return nil, &ErrYearNotFound{Year: year}
	}
	return summary, nil
}

// Boundaries lists the region boundaries available to the service.
func (s *Service) Boundaries(ctx context.Context) ([]string, error) {
	names, err := s.boundaries.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing boundaries: %w", err)
	}
	return names, nil
}
