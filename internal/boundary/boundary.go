// Package boundary reads region boundaries from GeoJSON and WKT.
package boundary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

var ErrNoPolygons = errors.New("boundary has no polygons")

// Parse decodes a GeoJSON FeatureCollection, Feature or bare geometry and
// returns its polygonal parts as one MultiPolygon.
func Parse(data []byte) (orb.MultiPolygon, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	var g orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature collection: %w", err)
		}
		c := make(orb.Collection, 0, len(fc.Features))
		for _, f := range fc.Features {
			if f.Geometry != nil {
				c = append(c, f.Geometry)
			}
		}
		g = c
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		g = f.Geometry
	case "":
		return nil, fmt.Errorf("decode geojson: missing type")
	default:
		geom, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		g = geom.Geometry()
	}
	return MultiPolygon(g)
}

// ParseWKT decodes a WKT POLYGON, MULTIPOLYGON or GEOMETRYCOLLECTION.
func ParseWKT(s string) (orb.MultiPolygon, error) {
	g, err := wkt.Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode wkt: %w", err)
	}
	return MultiPolygon(g)
}

// MultiPolygon flattens the polygonal parts of g. Points and lines inside a
// collection are ignored; a geometry with no polygons is an error.
func MultiPolygon(g orb.Geometry) (orb.MultiPolygon, error) {
	var mp orb.MultiPolygon
	var walk func(orb.Geometry)
	walk = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Ring:
			mp = append(mp, orb.Polygon{g})
		case orb.Polygon:
			mp = append(mp, g)
		case orb.MultiPolygon:
			mp = append(mp, g...)
		case orb.Collection:
			for _, child := range g {
				walk(child)
			}
		}
	}
	walk(g)

	if len(mp) == 0 {
		return nil, ErrNoPolygons
	}
	return mp, nil
}
