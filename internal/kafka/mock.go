package kafka

import (
	"lume-api/internal/logger"
	"lume-api/internal/models"
)

// MockProducer satisfies the publisher interfaces without a broker.
// Used when KAFKA_ENABLED=false or KAFKA_MOCK_MODE=true.
type MockProducer struct {
	Logger *logger.Logger
}

func NewMockProducer(log *logger.Logger) *MockProducer {
	return &MockProducer{Logger: log}
}

func (m *MockProducer) logSkip(kind, id string) {
	if m.Logger != nil {
		m.Logger.LogKafka("MOCK", kind, "publish skipped for "+id)
	}
}

func (m *MockProducer) PublishRSVPCreated(rsvp models.RSVP) error {
	m.logSkip("rsvp.created", rsvp.ID)
	return nil
}

func (m *MockProducer) PublishTicketIssued(ticket models.Ticket) error {
	m.logSkip("ticket.issued", ticket.ID)
	return nil
}

func (m *MockProducer) PublishTicketCheckedIn(ticket models.Ticket) error {
	m.logSkip("ticket.checkedin", ticket.ID)
	return nil
}

func (m *MockProducer) PublishContactCreated(msg models.ContactMessage) error {
	m.logSkip("contact.created", msg.ID)
	return nil
}
