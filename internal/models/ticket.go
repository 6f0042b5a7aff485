package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TicketStatusPending   = "pending"
	TicketStatusValid     = "valid"
	TicketStatusUsed      = "used"
	TicketStatusCancelled = "cancelled"
)

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID              string    `bun:"id,pk" json:"id"`
	EventID         string    `bun:"event_id,notnull" json:"event_id"`
	HolderName      string    `bun:"holder_name,notnull" json:"holder_name"`
	HolderEmail     string    `bun:"holder_email,notnull" json:"holder_email"`
	TicketCode      string    `bun:"ticket_code,unique,notnull" json:"ticket_code"`
	QRCode          []byte    `bun:"qr_code" json:"qr_code,omitempty"`
	PriceAtPurchase int64     `bun:"price_at_purchase,notnull" json:"price_at_purchase"`
	Status          string    `bun:"status,notnull" json:"status"`
	IssuedAt        time.Time `bun:"issued_at,notnull" json:"issued_at"`
	CheckedInAt     time.Time `bun:"checked_in_at,nullzero" json:"checked_in_at,omitempty"`
}

type PurchaseRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CheckInByCodeRequest struct {
	TicketCode string `json:"ticketCode"`
	EventID    string `json:"eventId"`
}

type CheckInByQRRequest struct {
	EncryptedQR string `json:"encrypted_qr"`
}

// QRPayload is what gets encrypted into the ticket QR image. Kept
// small so the QR stays scannable at medium error correction.
type QRPayload struct {
	TicketID   string `json:"ticket_id"`
	TicketCode string `json:"ticket_code"`
	EventID    string `json:"event_id"`
}
