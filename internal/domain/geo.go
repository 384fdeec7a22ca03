package domain

import "math"

// KmPerDegree converts a planar degree distance to kilometres.
const KmPerDegree = 111.0

// FlatDistanceKm approximates the distance between two points by treating
// latitude and longitude as a flat plane. It is not geodesic.
func FlatDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return math.Sqrt(dLat*dLat+dLon*dLon) * KmPerDegree
}
