// Package notify consumes LUME topics and fans out email
// notifications. Everything here is best-effort: a failed send is
// logged and the offset still advances.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"lume-api/internal/config"
	"lume-api/internal/kafka"
	"lume-api/internal/logger"
	"lume-api/internal/models"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type Notifier struct {
	Mailer     Mailer
	Logger     *logger.Logger
	AdminEmail string
}

func New(mailer Mailer, log *logger.Logger, adminEmail string) *Notifier {
	return &Notifier{Mailer: mailer, Logger: log, AdminEmail: adminEmail}
}

// StartRSVPConsumer emails attendees a confirmation for each new RSVP.
func (n *Notifier) StartRSVPConsumer(ctx context.Context, brokers []string, cfg config.KafkaConfig) {
	consumer := kafka.NewConsumer(brokers, cfg.Topics.RSVPCreated, cfg.GroupID)
	go func() {
		defer consumer.Close()
		consumer.Start(ctx, func(_, value []byte) error {
			var rsvp models.RSVP
			if err := json.Unmarshal(value, &rsvp); err != nil {
				return fmt.Errorf("unmarshal rsvp: %w", err)
			}

			body := fmt.Sprintf("Hi %s,\n\nYour RSVP for %d guest(s) is confirmed.\nSee you there!",
				rsvp.Name, rsvp.Quantity)
			if err := n.Mailer.Send(rsvp.Email, "Your RSVP is confirmed", body); err != nil {
				n.Logger.Warn("EMAIL", fmt.Sprintf("RSVP confirmation failed for %s: %v", rsvp.ID, err))
			}
			return nil
		})
	}()
}

// StartTicketConsumer emails holders their ticket code on confirmation.
func (n *Notifier) StartTicketConsumer(ctx context.Context, brokers []string, cfg config.KafkaConfig) {
	consumer := kafka.NewConsumer(brokers, cfg.Topics.TicketIssued, cfg.GroupID)
	go func() {
		defer consumer.Close()
		consumer.Start(ctx, func(_, value []byte) error {
			var ticket models.Ticket
			if err := json.Unmarshal(value, &ticket); err != nil {
				return fmt.Errorf("unmarshal ticket: %w", err)
			}

			body := fmt.Sprintf("Hi %s,\n\nYour ticket is confirmed. Present this code at the door:\n\n%s",
				ticket.HolderName, ticket.TicketCode)
			if err := n.Mailer.Send(ticket.HolderEmail, "Your LUME ticket", body); err != nil {
				n.Logger.Warn("EMAIL", fmt.Sprintf("ticket email failed for %s: %v", ticket.ID, err))
			}
			return nil
		})
	}()
}
