package spatial

import (
	"fmt"

	"github.com/paulmach/orb"
)

// GridSpec describes a uniform lon/lat sampling lattice.
type GridSpec struct {
	LonMin, LonMax float64
	LatMin, LatMax float64
	NX, NY         int
}

// NewGridSpec builds a GridSpec covering bound at the given resolution.
func NewGridSpec(bound orb.Bound, nx, ny int) GridSpec {
	return GridSpec{
		LonMin: bound.Min.X(),
		LonMax: bound.Max.X(),
		LatMin: bound.Min.Y(),
		LatMax: bound.Max.Y(),
		NX:     nx,
		NY:     ny,
	}
}

// Bound returns the lattice extent.
func (s GridSpec) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{s.LonMin, s.LatMin},
		Max: orb.Point{s.LonMax, s.LatMax},
	}
}

// Validate checks the lattice invariants.
func (s GridSpec) Validate() error {
	if !(s.LonMin < s.LonMax) || !(s.LatMin < s.LatMax) {
		return fmt.Errorf("%w: lon [%v, %v] lat [%v, %v]", ErrInvalidBounds, s.LonMin, s.LonMax, s.LatMin, s.LatMax)
	}
	if s.NX < 1 || s.NY < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidResolution, s.NX, s.NY)
	}
	return nil
}

// Points returns the lattice points in row-major order.
func (s GridSpec) Points() ([]orb.Point, error) {
	return BuildGrid(s.Bound(), s.NX, s.NY)
}

// BuildGrid returns nx*ny points spanning bound inclusively. Points are
// row-major: all nx longitudes of the southernmost latitude first, then the
// next latitude northwards. Results reshaped into a raster rely on this order.
func BuildGrid(bound orb.Bound, nx, ny int) ([]orb.Point, error) {
	if err := NewGridSpec(bound, nx, ny).Validate(); err != nil {
		return nil, err
	}

	lons := linspace(bound.Min.X(), bound.Max.X(), nx)
	lats := linspace(bound.Min.Y(), bound.Max.Y(), ny)

	points := make([]orb.Point, 0, nx*ny)
	for _, lat := range lats {
		for _, lon := range lons {
			points = append(points, orb.Point{lon, lat})
		}
	}
	return points, nil
}

// linspace returns n evenly spaced values over [start, stop]. The last value
// is stop exactly; a single value is start.
func linspace(start, stop float64, n int) []float64 {
	values := make([]float64, n)
	if n == 1 {
		values[0] = start
		return values
	}
	step := (stop - start) / float64(n-1)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	values[n-1] = stop
	return values
}
