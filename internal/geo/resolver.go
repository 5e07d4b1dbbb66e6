package geo

import (
	"fmt"
	"os"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/patrick/wildsight/internal/types"
)

// unit holds one GMU polygon with its precomputed bound and centroid.
type unit struct {
	id       int
	geometry orb.Geometry
	bound    orb.Bound
	centroid types.Coordinates
}

// UnitResolver answers point-in-unit and unit-centroid queries over the
// loaded GMU polygons.
type UnitResolver struct {
	units []unit
	byID  map[int]int
}

// LoadUnitResolver reads a GeoJSON FeatureCollection of GMU polygons.
// Features must carry a GMUID property; features without one are skipped
// with a warning by the caller's loader. A load failure is fatal to the
// pipeline: without polygons every unit-based resolution would silently
// degrade.
func LoadUnitResolver(path string) (*UnitResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GMU data %s: %w", path, err)
	}
	return NewUnitResolver(data)
}

// NewUnitResolver parses GeoJSON bytes into a resolver.
func NewUnitResolver(data []byte) (*UnitResolver, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GMU GeoJSON: %w", err)
	}

	r := &UnitResolver{byID: make(map[int]int)}
	for _, f := range fc.Features {
		id, ok := unitID(f)
		if !ok {
			continue
		}
		geom := f.Geometry
		if geom == nil {
			continue
		}
		centroid, _ := planar.CentroidArea(geom)
		r.byID[id] = len(r.units)
		r.units = append(r.units, unit{
			id:       id,
			geometry: geom,
			bound:    geom.Bound(),
			centroid: types.Coordinates{Lat: centroid.Lat(), Lon: centroid.Lon()},
		})
	}

	if len(r.units) == 0 {
		return nil, fmt.Errorf("no usable GMU features found")
	}
	return r, nil
}

// unitID extracts the GMUID property, tolerating the numeric and string
// encodings seen in published unit data.
func unitID(f *geojson.Feature) (int, bool) {
	v, ok := f.Properties["GMUID"]
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case float64:
		return int(id), true
	case int:
		return id, true
	case string:
		n, err := strconv.Atoi(id)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// UnitForPoint returns the GMU containing the coordinate, if any. The
// bound check screens candidates before the exact polygon test.
func (r *UnitResolver) UnitForPoint(lat, lon float64) (int, bool) {
	p := orb.Point{lon, lat}
	for i := range r.units {
		u := &r.units[i]
		if !u.bound.Contains(p) {
			continue
		}
		if geometryContains(u.geometry, p) {
			return u.id, true
		}
	}
	return 0, false
}

// CentroidForUnit returns the centroid of a unit's polygon.
func (r *UnitResolver) CentroidForUnit(id int) (types.Coordinates, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return types.Coordinates{}, false
	}
	return r.units[idx].centroid, true
}

// HasUnit reports whether the unit number exists in the loaded data.
func (r *UnitResolver) HasUnit(id int) bool {
	_, ok := r.byID[id]
	return ok
}

// UnitCount returns the number of loaded units.
func (r *UnitResolver) UnitCount() int {
	return len(r.units)
}

func geometryContains(geom orb.Geometry, p orb.Point) bool {
	switch g := geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	default:
		return false
	}
}
