package contact

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
	CreateMessage(ctx context.Context, msg *models.ContactMessage) error
	GetMessageByID(ctx context.Context, id string) (*models.ContactMessage, error)
	ListMessages(ctx context.Context, status string, limit, offset int) ([]models.ContactMessage, int, error)
	UpdateStatus(ctx context.Context, id, status, notes string) error
	SetAdminResponse(ctx context.Context, id, response string) error
}

type KafkaPublisher interface {
	PublishContactCreated(msg models.ContactMessage) error
}

// Mailer sends are best-effort: a failure is logged and never fails
// the parent operation.
type Mailer interface {
	Send(to, subject, body string) error
}

type Service struct {
	DB     DBLayer
	Kafka  KafkaPublisher
	Mailer Mailer
	Logger *logger.Logger

	AdminEmail string
}

func NewService(db DBLayer, kafka KafkaPublisher, mailer Mailer, log *logger.Logger, adminEmail string) *Service {
	return &Service{DB: db, Kafka: kafka, Mailer: mailer, Logger: log, AdminEmail: adminEmail}
}

// Create stores a public contact form submission. All four fields
// are required; nothing is persisted otherwise.
func (s *Service) Create(ctx context.Context, req models.ContactRequest) (*models.ContactMessage, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		return nil, fmt.Errorf("%w: name, email, subject and message are required", apierr.ErrValidation)
	}

	now := time.Now()
	msg := &models.ContactMessage{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    models.ContactStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.DB.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishContactCreated(*msg); err != nil && s.Logger != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("contact.created publish failed for %s: %v", msg.ID, err))
		}
	}

	s.notifyAdmin(msg)
	return msg, nil
}

// notifyAdmin emails the admin inbox about a new message. Failures
// are swallowed after logging.
func (s *Service) notifyAdmin(msg *models.ContactMessage) {
	if s.Mailer == nil || s.AdminEmail == "" {
		return
	}
	body := fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message)
	if err := s.Mailer.Send(s.AdminEmail, "New contact message: "+msg.Subject, body); err != nil && s.Logger != nil {
		s.Logger.Warn("EMAIL", fmt.Sprintf("admin notification failed for message %s: %v", msg.ID, err))
	}
}

func (s *Service) Get(ctx context.Context, id string) (*models.ContactMessage, error) {
	return s.DB.GetMessageByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]models.ContactMessage, int, error) {
	if status != "" && !models.ValidContactStatus(status) {
		return nil, 0, fmt.Errorf("%w: invalid status %q", apierr.ErrValidation, status)
	}
	return s.DB.ListMessages(ctx, status, limit, offset)
}

// SetStatus moves a message through its three states.
func (s *Service) SetStatus(ctx context.Context, id string, req models.ContactStatusRequest) (*models.ContactMessage, error) {
	if !models.ValidContactStatus(req.Status) {
		return nil, fmt.Errorf("%w: status must be one of new, in-progress, resolved", apierr.ErrValidation)
	}
	if err := s.DB.UpdateStatus(ctx, id, req.Status, req.Notes); err != nil {
		return nil, err
	}
	return s.DB.GetMessageByID(ctx, id)
}

// Respond stores the admin's reply, resolves the message and emails
// the sender best-effort.
func (s *Service) Respond(ctx context.Context, id, response string) (*models.ContactMessage, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("%w: response is required", apierr.ErrValidation)
	}

	if err := s.DB.SetAdminResponse(ctx, id, response); err != nil {
		return nil, err
	}

	msg, err := s.DB.GetMessageByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Mailer != nil {
		if err := s.Mailer.Send(msg.Email, "Re: "+msg.Subject, response); err != nil && s.Logger != nil {
			s.Logger.Warn("EMAIL", fmt.Sprintf("response email failed for message %s: %v", id, err))
		}
	}
	return msg, nil
}
