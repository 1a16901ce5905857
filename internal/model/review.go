package model

import "time"

// Review is a visitor's rating of a destination.
type Review struct {
	ID            int       `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"user_id"`
	DestinationID int       `db:"destination_id" json:"destination_id"`
	Rating        int       `db:"rating" json:"rating"`
	Title         string    `db:"title" json:"title"`
	Comment       string    `db:"comment" json:"comment"`
	AuthorName    string    `db:"author_name" json:"author_name,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
