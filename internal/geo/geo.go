package geo

import (
	"fmt"
	"math"
	"net/url"

	"jharkhand-tourism/internal/model"
)

const earthRadiusKm = 6371.0

type Point struct {
	Lat float64
	Lng float64
}

// DistanceKm is the great-circle distance between two points (haversine).
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// RouteKm sums the legs of a route visited in the given order.
func RouteKm(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += DistanceKm(points[i-1], points[i])
	}
	return total
}

// NearestNeighbour returns a visiting order for points that starts at the
// first one and always moves to the closest unvisited point.
func NearestNeighbour(points []Point) []int {
	if len(points) == 0 {
		return nil
	}
	order := []int{0}
	used := make([]bool, len(points))
	used[0] = true
	for len(order) < len(points) {
		last := points[order[len(order)-1]]
		minDist := math.MaxFloat64
		minIndex := -1
		for j, p := range points {
			if used[j] {
				continue
			}
			if d := DistanceKm(last, p); d < minDist {
				minDist = d
				minIndex = j
			}
		}
		used[minIndex] = true
		order = append(order, minIndex)
	}
	return order
}

// Round1 rounds a distance to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ValidCoordinates reports whether lat/lng lie in their allowed ranges.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Links builds the map URLs shown on a destination page.
type Links struct {
	EmbedBaseURL string
	APIKey       string
}

func (l Links) For(lat, lng float64) model.MapInfo {
	coords := fmt.Sprintf("%f,%f", lat, lng)

	embed := url.Values{}
	embed.Set("key", l.APIKey)
	embed.Set("q", coords)

	directions := url.Values{}
	directions.Set("api", "1")
	directions.Set("destination", coords)

	return model.MapInfo{
		Latitude:      lat,
		Longitude:     lng,
		EmbedURL:      l.EmbedBaseURL + "?" + embed.Encode(),
		DirectionsURL: "https://www.google.com/maps/dir/?" + directions.Encode(),
		ViewURL:       fmt.Sprintf("https://maps.google.com/?q=%f,%f", lat, lng),
	}
}
