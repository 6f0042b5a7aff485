package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string `bun:"id,pk" json:"id"`
	Title       string `bun:"title,notnull" json:"title"`
	Description string `bun:"description" json:"description"`
	Category    string `bun:"category,notnull" json:"category"`
	// Price in the smallest currency unit. Zero means a free event
	// (RSVP flow), anything above zero goes through the ticket flow.
	Price            int64     `bun:"price,notnull" json:"price"`
	Venue            string    `bun:"venue" json:"venue"`
	Address          string    `bun:"address" json:"address"`
	City             string    `bun:"city" json:"city"`
	StartTime        time.Time `bun:"start_time,notnull" json:"start_time"`
	EndTime          time.Time `bun:"end_time,notnull" json:"end_time"`
	TicketsAvailable int       `bun:"tickets_available,notnull" json:"tickets_available"`
	TicketsSold      int       `bun:"tickets_sold,notnull" json:"tickets_sold"`
	IsFeatured       bool      `bun:"is_featured,notnull" json:"is_featured"`
	IsHot            bool      `bun:"is_hot,notnull" json:"is_hot"`
	IsUnmissable     bool      `bun:"is_unmissable,notnull" json:"is_unmissable"`
	OrganizerID      string    `bun:"organizer_id,notnull" json:"organizer_id"`
	Status           string    `bun:"status,notnull" json:"status"`
	CreatedAt        time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// IsFree reports whether the event uses the RSVP flow instead of
// paid tickets.
func (e *Event) IsFree() bool {
	return e.Price == 0
}

type EventRequest struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Price            int64     `json:"price"`
	Venue            string    `json:"venue"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	TicketsAvailable int       `json:"tickets_available"`
	Status           string    `json:"status"`
}

type EventFlagsRequest struct {
	IsFeatured   *bool `json:"isFeatured"`
	IsHot        *bool `json:"isHot"`
	IsUnmissable *bool `json:"isUnmissable"`
}

type EventFilter struct {
	Category  string
	Featured  bool
	Organizer string
	Status    string
	Page      int
	Limit     int
}
