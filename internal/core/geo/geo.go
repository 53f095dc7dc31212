// Package geo holds the pure geodesic helpers shared by ingestion and route
// reconstruction. Distances use the haversine formula on a spherical earth.
package geo

import "math"

// EarthRadiusM is the mean earth radius in meters.
const EarthRadiusM = 6_371_000.0

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Valid reports whether c passes IsValidCoordinate.
func (c Coordinate) Valid() bool {
	return IsValidCoordinate(c.Lat, c.Lng)
}

// IsValidCoordinate is a strict range check. NaN and ±Inf fail every
// comparison below, so they are rejected without special casing.
func IsValidCoordinate(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	dLat := degToRad(b.Lat - a.Lat)
	dLng := degToRad(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLng*sinLng
	// Rounding can push h a hair past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusM * math.Asin(math.Sqrt(h))
}

// PathLengthMeters sums the leg distances along pts.
func PathLengthMeters(pts []Coordinate) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += DistanceMeters(pts[i-1], pts[i])
	}
	return total
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180
}
