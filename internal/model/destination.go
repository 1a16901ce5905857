package model

import "time"

// Destination is a tourist place shown on the site (waterfall, park, temple...).
type Destination struct {
	ID          int       `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	District    string    `db:"district" json:"district"`
	Rating      float64   `db:"rating" json:"rating"` // average of reviews, 0..5
	ReviewCount int       `db:"review_count" json:"review_count"`
	Latitude    float64   `db:"latitude" json:"latitude"`
	Longitude   float64   `db:"longitude" json:"longitude"`
	BestTime    string    `db:"best_time" json:"best_time,omitempty"`
	EntryFee    float64   `db:"entry_fee" json:"entry_fee"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DestinationPhoto is a gallery image of a destination.
type DestinationPhoto struct {
	ID            int    `db:"id" json:"id"`
	DestinationID int    `db:"destination_id" json:"destination_id"`
	URL           string `db:"url" json:"url"`
	Caption       string `db:"caption" json:"caption,omitempty"`
}

// DestinationFilter narrows a destination search. Empty or "any" values are ignored.
type DestinationFilter struct {
	Category  string
	District  string
	MinRating float64
	Keyword   string
	Sort      string // name, rating, -rating
	Limit     int
	Offset    int
}

// MapInfo holds the links the front end uses for embeds and navigation.
type MapInfo struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	EmbedURL      string  `json:"embed_url"`
	DirectionsURL string  `json:"directions_url"`
	ViewURL       string  `json:"view_url"`
}

// DestinationDetails is the destination page payload.
type DestinationDetails struct {
	Destination
	Photos []DestinationPhoto `json:"photos"`
	Map    MapInfo            `json:"map"`
}

// NearbyDestination is a destination annotated with its distance from a point.
type NearbyDestination struct {
	Destination
	DistanceKm float64 `json:"distance_km"`
}
