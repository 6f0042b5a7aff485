package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in-progress"
	ContactStatusResolved   = "resolved"
)

// ValidContactStatus reports whether s is one of the three allowed
// contact message states.
func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResolved:
		return true
	}
	return false
}

type ContactMessage struct {
	bun.BaseModel `bun:"table:contact_messages"`

	ID            string    `bun:"id,pk" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Email         string    `bun:"email,notnull" json:"email"`
	Subject       string    `bun:"subject,notnull" json:"subject"`
	Message       string    `bun:"message,notnull" json:"message"`
	Status        string    `bun:"status,notnull" json:"status"`
	Notes         string    `bun:"notes" json:"notes,omitempty"`
	AdminResponse string    `bun:"admin_response" json:"admin_response,omitempty"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type ContactRespondRequest struct {
	Response string `json:"response"`
}
