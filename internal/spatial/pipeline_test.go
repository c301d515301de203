package spatial

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestPipeline_TwoPointScenario(t *testing.T) {
	known := []KnownPoint{{Lon: 0, Lat: 0, Value: 10}, {Lon: 1, Lat: 1, Value: 20}}
	region, err := NewRegion(orb.Polygon{square(0, 0, 1, 1)})
	if err != nil {
		t.Fatal(err)
	}

	p := Pipeline{Interpolator: NewInterpolator(WithPower(2), WithK(2)), NX: 2, NY: 2}
	grid, err := p.RunGrid(known, region)
	if err != nil {
		t.Fatalf("RunGrid() error = %v", err)
	}
	if len(grid.Values) != 4 {
		t.Fatalf("expected 4 values, got %d", len(grid.Values))
	}
	if grid.Points[0] != (orb.Point{0, 0}) {
		t.Fatalf("first grid point = %v", grid.Points[0])
	}
	if !(grid.Values[0] < 15) {
		t.Errorf("value at (0,0) = %v, want < 15", grid.Values[0])
	}
	for _, i := range []int{1, 2} {
		if math.Abs(grid.Values[i]-15) > 1e-9 {
			t.Errorf("value at %v = %v, want 15", grid.Points[i], grid.Values[i])
		}
	}
	if !(grid.Values[3] > 15) {
		t.Errorf("value at (1,1) = %v, want > 15", grid.Values[3])
	}

	points, err := p.Run(known, region)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("expected all 4 boundary grid points kept, got %d", len(points))
	}
}

func TestPipeline_DropsOutsidePoints(t *testing.T) {
	// Triangle covering the lower-left half of its bounding box.
	region, err := NewRegion(orb.Ring{{0, 0}, {4, 0}, {0, 4}, {0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	known := []KnownPoint{{0.5, 0.5, 1}, {3, 0.5, 2}, {0.5, 3, 3}}

	p := Pipeline{Interpolator: NewInterpolator(WithK(3)), NX: 5, NY: 5}
	grid, err := p.RunGrid(known, region)
	if err != nil {
		t.Fatal(err)
	}
	points := grid.Masked()

	// Cells with x+y <= 4 on a unit lattice: 5+4+3+2+1.
	if len(points) != 15 {
		t.Fatalf("expected 15 points inside, got %d", len(points))
	}
	for _, ip := range points {
		if ip.Lon+ip.Lat > 4+1e-9 {
			t.Errorf("point (%v, %v) outside triangle kept", ip.Lon, ip.Lat)
		}
	}
}

func TestPipeline_Errors(t *testing.T) {
	region, err := NewRegion(orb.Polygon{square(0, 0, 1, 1)})
	if err != nil {
		t.Fatal(err)
	}
	known := []KnownPoint{{0, 0, 1}, {1, 0, 2}, {0, 1, 3}}

	_, err = Pipeline{Interpolator: NewInterpolator(WithK(5)), NX: 3, NY: 3}.Run(known, region)
	if !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("expected ErrInsufficientSamples, got %v", err)
	}

	_, err = Pipeline{Interpolator: NewInterpolator(WithK(2)), NX: 0, NY: 3}.Run(known, region)
	if !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("expected ErrInvalidResolution, got %v", err)
	}
}
