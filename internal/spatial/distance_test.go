package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHaversineKm(t *testing.T) {
	hanoi := Point{Lat: 21.0285, Lon: 105.8542}
	saigon := Point{Lat: 10.7769, Lon: 106.7009}

	km := HaversineKm(hanoi, saigon)
	require.InDelta(t, 1137, km, 15)
	require.Zero(t, HaversineKm(hanoi, hanoi))
	require.InDelta(t, km, HaversineKm(saigon, hanoi), 1e-9)
}

func TestPointValid(t *testing.T) {
	require.True(t, Point{Lat: 21, Lon: 105}.Valid())
	require.True(t, Point{Lat: -90, Lon: 180}.Valid())
	require.False(t, Point{Lat: 95, Lon: 105}.Valid())
	require.False(t, Point{Lat: 21, Lon: 181}.Valid())
}

func TestCentroid(t *testing.T) {
	points := []Point{
		{Lat: 10, Lon: 100},
		{Lat: 20, Lon: 110},
	}
	c := Centroid(points)
	require.InDelta(t, 15, c.Lat, 1e-9)
	require.InDelta(t, 105, c.Lon, 1e-9)

	require.Zero(t, Centroid(nil))
}

func TestReverse(t *testing.T) {
	in := []Point{{Lat: 1}, {Lat: 2}, {Lat: 3}}
	out := Reverse(in)
	require.Equal(t, []Point{{Lat: 3}, {Lat: 2}, {Lat: 1}}, out)
	require.Equal(t, []Point{{Lat: 1}, {Lat: 2}, {Lat: 3}}, in, "input must not be mutated")
}
