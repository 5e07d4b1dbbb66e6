package geo

import (
	"log"
	"strconv"

	"github.com/patrick/wildsight/internal/types"
)

// Default uncertainty radii in miles, by resolution method. Explicit
// coordinates are trusted tightly, trail lookups to roughly a trailhead's
// surroundings, unit centroids only to the scale of the unit itself.
const (
	DefaultExactRadiusMiles    = 1.0
	DefaultTrailRadiusMiles    = 2.0
	DefaultCentroidRadiusMiles = 10.0
)

// Resolver turns a validation result's location fields into a concrete
// point, unit, and uncertainty radius.
type Resolver struct {
	units  *UnitResolver
	trails *TrailIndex
}

// NewResolver combines unit polygons with a trail index. trails may be nil.
func NewResolver(units *UnitResolver, trails *TrailIndex) *Resolver {
	if trails == nil {
		trails = NewTrailIndex(nil)
	}
	return &Resolver{units: units, trails: trails}
}

// Trails exposes the underlying trail index for source-supplied merges.
func (r *Resolver) Trails() *TrailIndex {
	return r.trails
}

// Resolve maps a validation result to a location, trying in order:
// explicit coordinates, unit centroid, trail name lookup. A result that
// matches none of them comes back unresolved with no point.
func (r *Resolver) Resolve(vr types.ValidationResult) types.ResolvedLocation {
	if vr.Coordinates != nil && InColorado(vr.Coordinates.Lat, vr.Coordinates.Lon) {
		loc := types.ResolvedLocation{
			Point:       &types.Coordinates{Lat: vr.Coordinates.Lat, Lon: vr.Coordinates.Lon},
			RadiusMiles: radiusOr(vr.RadiusMiles, DefaultExactRadiusMiles),
			Method:      types.MethodExactCoordinates,
		}
		if id, ok := r.units.UnitForPoint(vr.Coordinates.Lat, vr.Coordinates.Lon); ok {
			loc.UnitID = strconv.Itoa(id)
		} else if vr.UnitNumber != nil {
			loc.UnitID = strconv.Itoa(*vr.UnitNumber)
		}
		return loc
	}

	if vr.UnitNumber != nil {
		if centroid, ok := r.units.CentroidForUnit(*vr.UnitNumber); ok {
			return types.ResolvedLocation{
				Point:       &types.Coordinates{Lat: centroid.Lat, Lon: centroid.Lon},
				UnitID:      strconv.Itoa(*vr.UnitNumber),
				RadiusMiles: radiusOr(vr.RadiusMiles, DefaultCentroidRadiusMiles),
				Method:      types.MethodUnitCentroid,
			}
		}
	}

	if vr.LocationName != "" {
		if trail, ok := r.trails.Lookup(vr.LocationName); ok {
			loc := types.ResolvedLocation{
				Point:       &types.Coordinates{Lat: trail.Lat, Lon: trail.Lon},
				RadiusMiles: radiusOr(vr.RadiusMiles, DefaultTrailRadiusMiles),
				Method:      types.MethodTrailLookup,
			}
			if id, ok := r.units.UnitForPoint(trail.Lat, trail.Lon); ok {
				loc.UnitID = strconv.Itoa(id)
			}
			return loc
		}
	}

	loc := types.ResolvedLocation{Method: types.MethodUnresolved}
	if vr.UnitNumber != nil {
		// Keep the claimed unit even when its polygon is unknown; the
		// location validator weighs the claim.
		if !r.units.HasUnit(*vr.UnitNumber) {
			log.Printf("Warning: claimed GMU %d is not in the loaded polygon dataset", *vr.UnitNumber)
		}
		loc.UnitID = strconv.Itoa(*vr.UnitNumber)
	}
	return loc
}

func radiusOr(r *float64, def float64) float64 {
	if r != nil && *r > 0 {
		return *r
	}
	return def
}
