package tickets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lume-api/internal/apierr"
	"lume-api/internal/logger"
	"lume-api/internal/models"
	"lume-api/internal/utils"
)

type TicketDBLayer interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicketByID(ctx context.Context, id string) (*models.Ticket, error)
	GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error)
	ConfirmTicket(ctx context.Context, id string) (*models.Ticket, error)
	CheckInByID(ctx context.Context, id string) (*models.Ticket, error)
	CheckInByCode(ctx context.Context, code, eventID string) (*models.Ticket, error)
	CancelPendingTicket(ctx context.Context, id string) error
	ListTicketsByEvent(ctx context.Context, eventID string, limit, offset int) ([]models.Ticket, int, error)
	CountCheckedIn(ctx context.Context, eventID string) (int, error)
}

type EventGetter interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

type HoldStore interface {
	PlaceHold(ticketID string) (bool, error)
	ClearHold(ticketID string) error
}

type KafkaPublisher interface {
	PublishTicketIssued(ticket models.Ticket) error
	PublishTicketCheckedIn(ticket models.Ticket) error
}

type QREncoder interface {
	GenerateEncryptedQR(payload models.QRPayload) ([]byte, error)
	DecryptQRData(encrypted string) (*models.QRPayload, error)
}

type Service struct {
	DB     TicketDBLayer
	Events EventGetter
	Holds  HoldStore
	Kafka  KafkaPublisher
	QR     QREncoder
	Logger *logger.Logger
}

func NewService(db TicketDBLayer, events EventGetter, holds HoldStore, kafka KafkaPublisher, qr QREncoder, log *logger.Logger) *Service {
	return &Service{DB: db, Events: events, Holds: holds, Kafka: kafka, QR: qr, Logger: log}
}

// Purchase reserves capacity and issues a pending ticket with a
// unique code and encrypted QR. The purchase must be confirmed
// before the redis hold expires or the ticket is cancelled and the
// capacity released.
func (s *Service) Purchase(ctx context.Context, eventID string, req models.PurchaseRequest) (*models.Ticket, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apierr.ErrValidation)
	}

	event, err := s.Events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusPublished {
		return nil, apierr.ErrNotFound
	}
	if event.IsFree() {
		return nil, fmt.Errorf("%w: free events use the RSVP flow", apierr.ErrValidation)
	}

	ticket := &models.Ticket{
		ID:              uuid.NewString(),
		EventID:         eventID,
		HolderName:      req.Name,
		HolderEmail:     req.Email,
		TicketCode:      utils.GenerateTicketCode(),
		PriceAtPurchase: event.Price,
		Status:          models.TicketStatusPending,
		IssuedAt:        time.Now(),
	}

	if s.QR != nil {
		qrBytes, err := s.QR.GenerateEncryptedQR(models.QRPayload{
			TicketID:   ticket.ID,
			TicketCode: ticket.TicketCode,
			EventID:    eventID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate QR: %w", err)
		}
		ticket.QRCode = qrBytes
	}

	if err := s.DB.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	if s.Holds != nil {
		if ok, err := s.Holds.PlaceHold(ticket.ID); err != nil || !ok {
			// Purchase stands; it just loses the automatic expiry.
			if s.Logger != nil {
				s.Logger.Warn("REDIS", fmt.Sprintf("failed to place hold for ticket %s: %v", ticket.ID, err))
			}
		}
	}

	if s.Logger != nil {
		s.Logger.Info("TICKET", fmt.Sprintf("Ticket %s (%s) issued pending for event %s", ticket.ID, ticket.TicketCode, eventID))
	}
	return ticket, nil
}

// Confirm finalizes payment: pending -> valid, hold cleared,
// issuance published.
func (s *Service) Confirm(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.DB.ConfirmTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Holds != nil {
		if err := s.Holds.ClearHold(id); err != nil && s.Logger != nil {
			s.Logger.Warn("REDIS", fmt.Sprintf("failed to clear hold for ticket %s: %v", id, err))
		}
	}
	if s.Kafka != nil {
		if err := s.Kafka.PublishTicketIssued(*ticket); err != nil && s.Logger != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("ticket.issued publish failed for %s: %v", id, err))
		}
	}
	return ticket, nil
}

// CheckInByID marks a ticket used; a second attempt conflicts
// without mutating anything.
func (s *Service) CheckInByID(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.DB.CheckInByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterCheckIn(ticket)
	return ticket, nil
}

// CheckInByCode admits by manually entered or scanned code,
// optionally scoped to an event.
func (s *Service) CheckInByCode(ctx context.Context, code, eventID string) (*models.Ticket, error) {
	code = utils.NormalizeTicketCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: ticketCode is required", apierr.ErrValidation)
	}

	ticket, err := s.DB.CheckInByCode(ctx, code, eventID)
	if err != nil {
		return nil, err
	}
	s.afterCheckIn(ticket)
	return ticket, nil
}

// CheckInByQR decrypts a scanned QR payload and admits the embedded
// ticket code.
func (s *Service) CheckInByQR(ctx context.Context, encryptedQR string) (*models.Ticket, error) {
	if s.QR == nil {
		return nil, fmt.Errorf("%w: QR check-in not configured", apierr.ErrValidation)
	}
	payload, err := s.QR.DecryptQRData(encryptedQR)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid QR code", apierr.ErrValidation)
	}
	return s.CheckInByCode(ctx, payload.TicketCode, payload.EventID)
}

func (s *Service) afterCheckIn(ticket *models.Ticket) {
	if s.Kafka != nil {
		if err := s.Kafka.PublishTicketCheckedIn(*ticket); err != nil && s.Logger != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("ticket.checkedin publish failed for %s: %v", ticket.ID, err))
		}
	}
	if s.Logger != nil {
		s.Logger.LogCheckIn("TICKET", ticket.ID, "ticket marked used")
	}
}

// ExpireHold is driven by the redis keyspace subscriber when a
// payment window closes.
func (s *Service) ExpireHold(ctx context.Context, ticketID string) error {
	if err := s.DB.CancelPendingTicket(ctx, ticketID); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("TICKET", fmt.Sprintf("Hold expired, pending ticket %s cancelled", ticketID))
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Ticket, error) {
	return s.DB.GetTicketByID(ctx, id)
}

func (s *Service) ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]models.Ticket, int, error) {
	return s.DB.ListTicketsByEvent(ctx, eventID, limit, offset)
}

func (s *Service) CheckedInCount(ctx context.Context, eventID string) (int, error) {
	return s.DB.CountCheckedIn(ctx, eventID)
}
