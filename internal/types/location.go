package types

// ResolutionMethod records which resolver strategy produced a sighting's
// final location.
type ResolutionMethod string

// Resolution methods, in the resolver's priority order.
const (
	MethodExactCoordinates ResolutionMethod = "exact_coordinates"
	MethodUnitCentroid     ResolutionMethod = "unit_centroid"
	MethodTrailLookup      ResolutionMethod = "trail_lookup"
	MethodUnresolved       ResolutionMethod = "unresolved"
)

// ResolvedLocation is the outcome of geospatial resolution for one
// validation result. A non-nil Point always carries a positive RadiusMiles;
// a point without a radius is treated as a resolver bug.
type ResolvedLocation struct {
	Point       *Coordinates     `json:"point,omitempty"`
	UnitID      string           `json:"unit_id,omitempty"`
	RadiusMiles float64          `json:"confidence_radius_miles,omitempty"`
	Method      ResolutionMethod `json:"resolution_method"`
}
