package spatial

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"
)

// edgeTolerance scales with the region extent to decide when a point lies on
// an edge.
const edgeTolerance = 1e-12

type edge struct {
	id   int
	a, b orb.Point
}

func (e edge) bound() (lo, hi [2]float64) {
	return [2]float64{math.Min(e.a[0], e.b[0]), math.Min(e.a[1], e.b[1])},
		[2]float64{math.Max(e.a[0], e.b[0]), math.Max(e.a[1], e.b[1])}
}

// Region is a validated polygonal area of interest with an edge index for
// point-in-region queries. A Region is read-only once built and may be shared
// between goroutines.
//
// Membership follows the even-odd rule over every ring, so holes subtract
// from their polygon. Points lying on an edge count as inside.
type Region struct {
	polygons orb.MultiPolygon
	bound    orb.Bound
	tol      float64
	edges    rtree.RTreeG[edge]
}

// NewRegion validates g and indexes its edges. g may be a Ring, Polygon,
// MultiPolygon, or a Collection of those.
func NewRegion(g orb.Geometry) (*Region, error) {
	mp, err := toMultiPolygon(g)
	if err != nil {
		return nil, err
	}
	if len(mp) == 0 {
		return nil, fmt.Errorf("%w: empty boundary", ErrInvalidGeometry)
	}

	r := &Region{polygons: mp, bound: mp.Bound()}
	extent := math.Max(r.bound.Max.X()-r.bound.Min.X(), r.bound.Max.Y()-r.bound.Min.Y())
	r.tol = edgeTolerance * math.Max(extent, 1)

	id := 0
	for pi, poly := range mp {
		if len(poly) == 0 {
			return nil, fmt.Errorf("%w: polygon %d has no rings", ErrInvalidGeometry, pi)
		}
		for ri, ring := range poly {
			pts := distinctVertices(ring)
			if len(pts) < 3 {
				return nil, fmt.Errorf("%w: polygon %d ring %d has %d distinct vertices", ErrInvalidGeometry, pi, ri, len(pts))
			}
			for i := range pts {
				e := edge{id: id, a: pts[i], b: pts[(i+1)%len(pts)]}
				lo, hi := e.bound()
				r.edges.Insert(lo, hi, e)
				id++
			}
		}
	}

	if area := math.Abs(planar.Area(mp)); !(area > 0) {
		return nil, fmt.Errorf("%w: zero area", ErrInvalidGeometry)
	}
	if a, b, ok := r.crossingEdges(); ok {
		return nil, fmt.Errorf("%w: self-intersection between %v-%v and %v-%v", ErrInvalidGeometry, a.a, a.b, b.a, b.b)
	}
	if inner, outer, ok := r.nestedParts(); ok {
		return nil, fmt.Errorf("%w: polygon %d lies inside polygon %d", ErrInvalidGeometry, inner, outer)
	}
	return r, nil
}

// MaskToRegion reports, for each point, whether it lies inside boundary.
func MaskToRegion(points []orb.Point, boundary orb.Geometry) ([]bool, error) {
	r, err := NewRegion(boundary)
	if err != nil {
		return nil, err
	}
	return r.Mask(points), nil
}

// Bound returns the bounding box of the region.
func (r *Region) Bound() orb.Bound {
	return r.bound
}

// Mask returns one flag per point, in input order.
func (r *Region) Mask(points []orb.Point) []bool {
	mask := make([]bool, len(points))
	for i, p := range points {
		mask[i] = r.Contains(p)
	}
	return mask
}

// Contains reports whether p lies inside the region or on its boundary.
func (r *Region) Contains(p orb.Point) bool {
	if !r.bound.Pad(r.tol).Contains(p) {
		return false
	}

	// Only edges meeting the eastward ray from p can change parity.
	inside, onEdge := false, false
	lo := [2]float64{p[0] - r.tol, p[1] - r.tol}
	hi := [2]float64{r.bound.Max[0] + r.tol, p[1] + r.tol}
	r.edges.Search(lo, hi, func(_, _ [2]float64, e edge) bool {
		if onSegment(p, e.a, e.b, r.tol) {
			onEdge = true
			return false
		}
		if (e.a[1] > p[1]) != (e.b[1] > p[1]) {
			x := e.a[0] + (p[1]-e.a[1])*(e.b[0]-e.a[0])/(e.b[1]-e.a[1])
			if x > p[0] {
				inside = !inside
			}
		}
		return true
	})
	return onEdge || inside
}

// crossingEdges returns the first pair of edges that cross at a point
// interior to both. Edges meeting at shared vertices do not count.
func (r *Region) crossingEdges() (edge, edge, bool) {
	var first, second edge
	found := false
	r.edges.Scan(func(lo, hi [2]float64, e edge) bool {
		r.edges.Search(lo, hi, func(_, _ [2]float64, f edge) bool {
			if f.id <= e.id {
				return true
			}
			if properlyCross(e.a, e.b, f.a, f.b) {
				first, second, found = e, f, true
				return false
			}
			return true
		})
		return !found
	})
	return first, second, found
}

// nestedParts returns the first pair of polygons where one lies within the
// area of the other. Parts sitting in a hole of another part are allowed.
func (r *Region) nestedParts() (int, int, bool) {
	for i, inner := range r.polygons {
		for j, outer := range r.polygons {
			if i == j || !outer[0].Bound().Pad(r.tol).Intersects(inner[0].Bound()) {
				continue
			}
			if r.ringWithin(inner[0], outer) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// ringWithin decides from the first vertex of ring that is not on the
// boundary of poly. Rings made only of boundary vertices fall back to their
// centroid.
func (r *Region) ringWithin(ring orb.Ring, poly orb.Polygon) bool {
	for _, p := range ring {
		if inside, decided := r.polygonPosition(p, poly); decided {
			return inside
		}
	}
	c, _ := planar.CentroidArea(ring)
	inside, decided := r.polygonPosition(c, poly)
	return decided && inside
}

// polygonPosition reports whether p is strictly inside poly. decided is false
// when p lies on one of its rings.
func (r *Region) polygonPosition(p orb.Point, poly orb.Polygon) (inside, decided bool) {
	for _, ring := range poly {
		if r.onRing(p, ring) {
			return false, false
		}
	}
	if !planar.RingContains(poly[0], p) {
		return false, true
	}
	for _, hole := range poly[1:] {
		if planar.RingContains(hole, p) {
			return false, true
		}
	}
	return true, true
}

func (r *Region) onRing(p orb.Point, ring orb.Ring) bool {
	for i := 0; i+1 < len(ring); i++ {
		if onSegment(p, ring[i], ring[i+1], r.tol) {
			return true
		}
	}
	return len(ring) > 1 && onSegment(p, ring[len(ring)-1], ring[0], r.tol)
}

func toMultiPolygon(g orb.Geometry) (orb.MultiPolygon, error) {
	switch g := g.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil geometry", ErrInvalidGeometry)
	case orb.Ring:
		return orb.MultiPolygon{orb.Polygon{g}}, nil
	case orb.Polygon:
		return orb.MultiPolygon{g}, nil
	case orb.MultiPolygon:
		return g, nil
	case orb.Collection:
		var mp orb.MultiPolygon
		for _, child := range g {
			sub, err := toMultiPolygon(child)
			if err != nil {
				return nil, err
			}
			mp = append(mp, sub...)
		}
		return mp, nil
	default:
		return nil, fmt.Errorf("%w: unsupported geometry %s", ErrInvalidGeometry, g.GeoJSONType())
	}
}

// distinctVertices drops repeated consecutive vertices and the closing vertex.
func distinctVertices(ring orb.Ring) []orb.Point {
	pts := make([]orb.Point, 0, len(ring))
	for _, p := range ring {
		if len(pts) > 0 && pts[len(pts)-1].Equal(p) {
			continue
		}
		pts = append(pts, p)
	}
	for len(pts) > 1 && pts[0].Equal(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func onSegment(p, a, b orb.Point, tol float64) bool {
	if p[0] < math.Min(a[0], b[0])-tol || p[0] > math.Max(a[0], b[0])+tol ||
		p[1] < math.Min(a[1], b[1])-tol || p[1] > math.Max(a[1], b[1])+tol {
		return false
	}
	length := math.Hypot(b[0]-a[0], b[1]-a[1])
	return math.Abs(cross(a, b, p)) <= tol*length
}

func properlyCross(a, b, c, d orb.Point) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
