package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Earth radii used across the planner.
const (
	EarthRadiusMeters = 6371000.0
	EarthRadiusKm     = 6371.0
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies inside the WGS84 coordinate ranges.
func (p Point) Valid() bool {
	return math.Abs(p.Lat) <= 90 && math.Abs(p.Lon) <= 180
}

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(a, b Point) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// HaversineMeters returns the great-circle distance between two points in meters.
func HaversineMeters(a, b Point) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Centroid returns the arithmetic mean of the given points.
// The zero Point is returned for an empty input.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return Point{Lat: lat / n, Lon: lon / n}
}

// Reverse returns a new slice with the points in opposite order.
func Reverse(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}
