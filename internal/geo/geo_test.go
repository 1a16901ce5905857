package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ranchi     = Point{Lat: 23.3441, Lng: 85.3096}
	jamshedpur = Point{Lat: 22.8046, Lng: 86.2029}
)

func TestDistanceKm(t *testing.T) {
	assert.InDelta(t, 107, DistanceKm(ranchi, jamshedpur), 3)
	assert.InDelta(t, DistanceKm(ranchi, jamshedpur), DistanceKm(jamshedpur, ranchi), 1e-9)
	assert.Equal(t, 0.0, DistanceKm(ranchi, ranchi))
}

func TestNearestNeighbourOnCollinearPoints(t *testing.T) {
	points := []Point{
		{Lat: 23.0, Lng: 85.0},
		{Lat: 23.0, Lng: 85.3},
		{Lat: 23.0, Lng: 85.1},
		{Lat: 23.0, Lng: 85.2},
	}
	order := NearestNeighbour(points)
	require.Equal(t, []int{0, 2, 3, 1}, order)

	reordered := make([]Point, len(order))
	for i, idx := range order {
		reordered[i] = points[idx]
	}
	assert.LessOrEqual(t, RouteKm(reordered), RouteKm(points))
}

func TestNearestNeighbourEdgeCases(t *testing.T) {
	assert.Nil(t, NearestNeighbour(nil))
	assert.Equal(t, []int{0}, NearestNeighbour([]Point{ranchi}))
	assert.Equal(t, 0.0, RouteKm([]Point{ranchi}))
}

func TestLinks(t *testing.T) {
	info := Links{EmbedBaseURL: "https://www.google.com/maps/embed/v1/place", APIKey: "k"}.For(23.4, 85.4)

	assert.Equal(t, "https://www.google.com/maps/embed/v1/place?key=k&q=23.400000%2C85.400000", info.EmbedURL)
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=23.400000%2C85.400000", info.DirectionsURL)
	assert.Equal(t, "https://maps.google.com/?q=23.400000,85.400000", info.ViewURL)
}

func TestValidCoordinatesAndRound(t *testing.T) {
	assert.True(t, ValidCoordinates(23.3, 85.3))
	assert.False(t, ValidCoordinates(91, 0))
	assert.False(t, ValidCoordinates(0, -181))
	assert.Equal(t, 12.3, Round1(12.345))
}
