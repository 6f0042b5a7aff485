package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"lume-api/internal/config"
	"lume-api/internal/models"
)

type Producer struct {
	Writer *kafka.Writer
	Topics config.TopicConfig
}

func NewProducer(brokers []string, topics config.TopicConfig) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer, Topics: topics}
}

// Publish writes a raw message to the given topic.
func (p *Producer) Publish(topic, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

func (p *Producer) publishJSON(topic, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.Publish(topic, key, value)
}

// PublishRSVPCreated streams a new RSVP to the notification pipeline.
func (p *Producer) PublishRSVPCreated(rsvp models.RSVP) error {
	return p.publishJSON(p.Topics.RSVPCreated, rsvp.EventID, rsvp)
}

// PublishTicketIssued streams a confirmed ticket purchase.
func (p *Producer) PublishTicketIssued(ticket models.Ticket) error {
	return p.publishJSON(p.Topics.TicketIssued, ticket.EventID, ticket)
}

// PublishTicketCheckedIn streams a completed check-in.
func (p *Producer) PublishTicketCheckedIn(ticket models.Ticket) error {
	return p.publishJSON(p.Topics.TicketCheckedIn, ticket.EventID, ticket)
}

// PublishContactCreated streams a new contact message for the
// admin notifier.
func (p *Producer) PublishContactCreated(msg models.ContactMessage) error {
	return p.publishJSON(p.Topics.ContactCreated, msg.ID, msg)
}

// Close flushes and shuts down the writer.
func (p *Producer) Close() error {
	return p.Writer.Close()
}
