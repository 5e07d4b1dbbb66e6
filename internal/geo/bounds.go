// Package geo resolves sighting locations against Colorado game management
// unit (GMU) polygons and a named-trail index, and sanity-checks locations
// before persistence.
package geo

// Colorado bounding box. Coordinates outside it are never trusted.
const (
	ColoradoMinLat = 36.0
	ColoradoMaxLat = 42.0
	ColoradoMinLon = -109.5
	ColoradoMaxLon = -102.0
)

// InColorado reports whether a coordinate pair falls inside the state
// bounding box.
func InColorado(lat, lon float64) bool {
	return lat >= ColoradoMinLat && lat <= ColoradoMaxLat &&
		lon >= ColoradoMinLon && lon <= ColoradoMaxLon
}
