package spatial

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
)

const (
	DefaultPower   = 1.0
	DefaultK       = 8
	DefaultEpsilon = 1e-10
)

// KnownPoint is an observed measurement at a location.
type KnownPoint struct {
	Lon   float64
	Lat   float64
	Value float64
}

// Point implements orb.Pointer.
func (p KnownPoint) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Interpolator estimates values at arbitrary locations by inverse distance
// weighting of the K nearest known points.
type Interpolator struct {
	// Power is the distance decay exponent.
	Power float64
	// K is the number of neighbours blended per location.
	K int
	// Epsilon replaces a zero neighbour distance, so a location on top of a
	// known point takes (almost) all of its weight from that point.
	Epsilon float64
}

// Option configures an Interpolator.
type Option func(*Interpolator)

func WithPower(power float64) Option {
	return func(i *Interpolator) { i.Power = power }
}

func WithK(k int) Option {
	return func(i *Interpolator) { i.K = k }
}

func WithEpsilon(epsilon float64) Option {
	return func(i *Interpolator) { i.Epsilon = epsilon }
}

// NewInterpolator returns an Interpolator with defaults overridden by opts.
func NewInterpolator(opts ...Option) Interpolator {
	i := Interpolator{
		Power:   DefaultPower,
		K:       DefaultK,
		Epsilon: DefaultEpsilon,
	}
	for _, opt := range opts {
		opt(&i)
	}
	return i
}

func (i Interpolator) validate(known []KnownPoint) error {
	if len(known) == 0 {
		return fmt.Errorf("%w: no known points", ErrEmptyInput)
	}
	if i.K < 1 || i.K > len(known) {
		return fmt.Errorf("%w: k=%d with %d known points", ErrInsufficientSamples, i.K, len(known))
	}
	if !(i.Power > 0) || math.IsInf(i.Power, 0) {
		return fmt.Errorf("%w: power must be positive, got %v", ErrInvalidParameter, i.Power)
	}
	if !(i.Epsilon > 0) {
		return fmt.Errorf("%w: epsilon must be positive, got %v", ErrInvalidParameter, i.Epsilon)
	}
	return nil
}

// Interpolate returns one estimate per grid point, in grid order.
func (i Interpolator) Interpolate(known []KnownPoint, grid []orb.Point) ([]float64, error) {
	if err := i.validate(known); err != nil {
		return nil, err
	}

	values := make([]float64, len(grid))
	if len(grid) == 0 {
		return values, nil
	}

	tree, err := newKnownIndex(known)
	if err != nil {
		return nil, err
	}

	buf := make([]orb.Pointer, 0, i.K)
	weights := make([]float64, i.K)
	for gi, p := range grid {
		buf = tree.KNearest(buf[:0], p, i.K)
		values[gi] = i.blend(p, buf, weights)
	}
	return values, nil
}

// At estimates the value at a single location.
func (i Interpolator) At(known []KnownPoint, p orb.Point) (float64, error) {
	values, err := i.Interpolate(known, []orb.Point{p})
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

func (i Interpolator) blend(p orb.Point, neighbours []orb.Pointer, weights []float64) float64 {
	var sum float64
	infinite := 0
	for n, nb := range neighbours {
		d := distance(p, nb.Point())
		if d == 0 {
			d = i.Epsilon
		}
		w := 1 / math.Pow(d, i.Power)
		if math.IsInf(w, 1) {
			infinite++
		}
		weights[n] = w
		sum += w
	}

	// Overflowing weights share the estimate equally among themselves.
	if infinite > 0 {
		var v float64
		for n, nb := range neighbours {
			if math.IsInf(weights[n], 1) {
				v += nb.(KnownPoint).Value
			}
		}
		return v / float64(infinite)
	}

	// Every weight underflowed to zero: use the nearest neighbour.
	if sum == 0 {
		nearest, best := 0, math.Inf(1)
		for n, nb := range neighbours {
			if d := distance(p, nb.Point()); d < best {
				nearest, best = n, d
			}
		}
		return neighbours[nearest].(KnownPoint).Value
	}

	var v float64
	for n, nb := range neighbours {
		v += weights[n] / sum * nb.(KnownPoint).Value
	}
	return v
}

func distance(a, b orb.Point) float64 {
	return math.Hypot(a.X()-b.X(), a.Y()-b.Y())
}

// newKnownIndex loads known points into a quadtree. The tree bound is padded
// so collinear or coincident inputs still give it a positive area.
func newKnownIndex(known []KnownPoint) (*quadtree.Quadtree, error) {
	bound := orb.Bound{Min: known[0].Point(), Max: known[0].Point()}
	for _, kp := range known[1:] {
		bound = bound.Extend(kp.Point())
	}
	pad := math.Max(bound.Max.X()-bound.Min.X(), bound.Max.Y()-bound.Min.Y()) * 0.01
	if pad == 0 {
		pad = 1
	}
	bound = bound.Pad(pad)

	tree := quadtree.New(bound)
	for _, kp := range known {
		if err := tree.Add(kp); err != nil {
			return nil, fmt.Errorf("%w: point (%v, %v): %v", ErrInvalidParameter, kp.Lon, kp.Lat, err)
		}
	}
	return tree, nil
}
