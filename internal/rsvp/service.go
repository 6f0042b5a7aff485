package rsvp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lume-api/internal/apierr"
	"lume-api/internal/logger"
	"lume-api/internal/models"
)

type DBLayer interface {
	CreateRSVP(ctx context.Context, rsvp *models.RSVP) error
	GetRSVPByID(ctx context.Context, id string) (*models.RSVP, error)
	SetCheckedInGuests(ctx context.Context, id string, checkedIn int) error
	ListRSVPs(ctx context.Context, eventID, email string, limit, offset int) ([]models.RSVP, error)
	CountRSVPs(ctx context.Context, eventID, email string) (int, int, error)
}

type EventGetter interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

type KafkaPublisher interface {
	PublishRSVPCreated(rsvp models.RSVP) error
}

type Service struct {
	DB     DBLayer
	Events EventGetter
	Kafka  KafkaPublisher
	Logger *logger.Logger
}

func NewService(db DBLayer, events EventGetter, kafka KafkaPublisher, log *logger.Logger) *Service {
	return &Service{DB: db, Events: events, Kafka: kafka, Logger: log}
}

// Create validates the submission and runs the atomic capacity
// admission. Free events only; paid events go through the ticket
// purchase flow.
func (s *Service) Create(ctx context.Context, eventID string, req models.RSVPRequest) (*models.RSVP, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apierr.ErrValidation)
	}
	if !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: email is not valid", apierr.ErrValidation)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", apierr.ErrValidation)
	}

	event, err := s.Events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusPublished {
		return nil, apierr.ErrNotFound
	}
	if !event.IsFree() {
		return nil, fmt.Errorf("%w: paid events require a ticket purchase", apierr.ErrValidation)
	}

	rsvp := &models.RSVP{
		ID:              uuid.NewString(),
		EventID:         eventID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           strings.TrimSpace(req.Phone),
		Quantity:        req.Quantity,
		CheckedInGuests: 0,
		CreatedAt:       time.Now(),
	}

	if err := s.DB.CreateRSVP(ctx, rsvp); err != nil {
		return nil, err
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishRSVPCreated(*rsvp); err != nil && s.Logger != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("rsvp.created publish failed for %s: %v", rsvp.ID, err))
		}
	}
	if s.Logger != nil {
		s.Logger.LogRSVP("CREATE", rsvp.ID, fmt.Sprintf("%d guest(s) for event %s", rsvp.Quantity, eventID))
	}

	return rsvp, nil
}

// CheckIn persists a new checked-in guest count for an RSVP. The
// value must land inside [0, quantity].
func (s *Service) CheckIn(ctx context.Context, id string, checkedIn int) (*models.RSVP, error) {
	if checkedIn < 0 {
		return nil, apierr.ErrCheckInBounds
	}

	if err := s.DB.SetCheckedInGuests(ctx, id, checkedIn); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.LogCheckIn("RSVP", id, fmt.Sprintf("checked-in guests set to %d", checkedIn))
	}
	return s.DB.GetRSVPByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*models.RSVP, error) {
	return s.DB.GetRSVPByID(ctx, id)
}

// List returns RSVPs plus the count/totalGuests aggregates for the
// standard listing envelope.
func (s *Service) List(ctx context.Context, eventID, email string, limit, offset int) (*models.RSVPList, error) {
	rsvps, err := s.DB.ListRSVPs(ctx, eventID, email, limit, offset)
	if err != nil {
		return nil, err
	}
	count, totalGuests, err := s.DB.CountRSVPs(ctx, eventID, email)
	if err != nil {
		return nil, err
	}
	if rsvps == nil {
		rsvps = []models.RSVP{}
	}
	return &models.RSVPList{Data: rsvps, Count: count, TotalGuests: totalGuests}, nil
}
