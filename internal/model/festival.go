package model

import "time"

// Festival is a cultural event in the state calendar.
type Festival struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Community   string    `db:"community" json:"community,omitempty"` // tribe or community that celebrates it
	District    string    `db:"district" json:"district,omitempty"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	Highlights  string    `db:"highlights" json:"highlights,omitempty"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
}

// CalendarMonth groups the festivals that touch one month.
type CalendarMonth struct {
	Month     int        `json:"month"`
	Name      string     `json:"name"`
	Festivals []Festival `json:"festivals"`
}
