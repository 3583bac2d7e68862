package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

// Coordinate is a geographic position in decimal degrees.
// Valid latitudes are [-90, 90] and longitudes [-180, 180]; range
// checking belongs to the caller, not to the distance formula.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Distance calculates the great-circle distance between two coordinates
// in kilometers using the haversine formula.
// Symmetric: Distance(a, b) == Distance(b, a). Returns 0 for identical points.
func Distance(a, b Coordinate) float64 {
	if a == b {
		return 0
	}

	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// Rounding can push h a hair past 1 near antipodal points, which
	// would make Sqrt(1-h) NaN.
	if h > 1 {
		h = 1
	}

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
