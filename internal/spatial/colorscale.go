package spatial

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Percentiles used by the density map to keep a few hot spots from
// compressing the colour scale.
const (
	DefaultColorLow  = 0.02
	DefaultColorHigh = 0.98
)

// ColorRange returns the empirical lo and hi quantiles of values.
func ColorRange(values []float64, lo, hi float64) (float64, float64, error) {
	if len(values) == 0 {
		return 0, 0, fmt.Errorf("%w: no values", ErrEmptyInput)
	}
	if !(0 <= lo && lo <= hi && hi <= 1) {
		return 0, 0, fmt.Errorf("%w: quantiles %v, %v", ErrInvalidParameter, lo, hi)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return stat.Quantile(lo, stat.Empirical, sorted, nil), stat.Quantile(hi, stat.Empirical, sorted, nil), nil
}

// PointValues extracts the values of points.
func PointValues(points []InterpolatedPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
