// Package geo computes distances between catalog locations.
//
// Haversine is the canonical metric for anything expressed in kilometres.
// Planar works on raw degrees and is only meaningful for relative ordering;
// callers must not compare its results against Haversine results.
package geo

import (
	"math"

	"github.com/chrisdamba/fooder/internal/models"
)

const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b models.Location) float64 {
	lat1 := degreesToRadians(a.Lat)
	lon1 := degreesToRadians(a.Lon)
	lat2 := degreesToRadians(b.Lat)
	lon2 := degreesToRadians(b.Lon)

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	h := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Planar returns the Euclidean distance between a and b treating degrees as
// cartesian coordinates.
func Planar(a, b models.Location) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
