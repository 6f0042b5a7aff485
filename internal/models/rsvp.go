package models

import (
	"time"

	"github.com/uptrace/bun"
)

type RSVP struct {
	bun.BaseModel `bun:"table:rsvps"`

	ID              string    `bun:"id,pk" json:"id"`
	EventID         string    `bun:"event_id,notnull" json:"event_id"`
	Name            string    `bun:"name,notnull" json:"name"`
	Email           string    `bun:"email,notnull" json:"email"`
	Phone           string    `bun:"phone" json:"phone"`
	Quantity        int       `bun:"quantity,notnull" json:"quantity"`
	CheckedInGuests int       `bun:"checked_in_guests,notnull" json:"checked_in_guests"`
	CreatedAt       time.Time `bun:"created_at,notnull" json:"created_at"`
}

type RSVPRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Quantity int    `json:"quantity"`
}

type RSVPCheckInRequest struct {
	CheckedInGuests *int `json:"checkedInGuests"`
}

// RSVPList is the listing envelope: count is the number of RSVP
// records, totalGuests the sum of their quantities.
type RSVPList struct {
	Data        []RSVP `json:"data"`
	Count       int    `json:"count"`
	TotalGuests int    `json:"totalGuests"`
}
