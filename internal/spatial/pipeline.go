package spatial

import "github.com/paulmach/orb"

// InterpolatedPoint is a grid location with its estimated value.
type InterpolatedPoint struct {
	Lon   float64 `json:"lon" msgpack:"lon"`
	Lat   float64 `json:"lat" msgpack:"lat"`
	Value float64 `json:"value" msgpack:"value"`
}

// Grid is the full lattice produced by a pipeline run. Points, Values and
// Inside are aligned and in row-major order, so index i sits at column i%NX
// and row i/NX.
type Grid struct {
	NX, NY int
	Points []orb.Point
	Values []float64
	Inside []bool
}

// Masked returns the in-region points in grid order.
func (g Grid) Masked() []InterpolatedPoint {
	out := make([]InterpolatedPoint, 0, len(g.Points))
	for i, p := range g.Points {
		if !g.Inside[i] {
			continue
		}
		out = append(out, InterpolatedPoint{Lon: p.X(), Lat: p.Y(), Value: g.Values[i]})
	}
	return out
}

// Pipeline rasterizes sparse measurements onto a grid covering a region and
// keeps the cells inside it.
type Pipeline struct {
	Interpolator Interpolator
	NX, NY       int
}

// RunGrid builds the grid over the region bounds, interpolates every grid
// point and flags the ones inside the region.
func (p Pipeline) RunGrid(known []KnownPoint, region *Region) (Grid, error) {
	points, err := NewGridSpec(region.Bound(), p.NX, p.NY).Points()
	if err != nil {
		return Grid{}, err
	}

	values, err := p.Interpolator.Interpolate(known, points)
	if err != nil {
		return Grid{}, err
	}

	return Grid{
		NX:     p.NX,
		NY:     p.NY,
		Points: points,
		Values: values,
		Inside: region.Mask(points),
	}, nil
}

// Run is RunGrid followed by Masked.
func (p Pipeline) Run(known []KnownPoint, region *Region) ([]InterpolatedPoint, error) {
	grid, err := p.RunGrid(known, region)
	if err != nil {
		return nil, err
	}
	return grid.Masked(), nil
}
