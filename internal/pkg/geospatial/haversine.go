package geospatial

import "math"

// Mean Earth radius. Good to a few metres at city scale, which is all a hotel
// marker needs.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in metres between two
// coordinates. Search results use it for a hotel's distance_m from the city
// center, so markers can be ranked or labelled without a second lookup.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
