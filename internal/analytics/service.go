package analytics

import (
	"context"

	"github.com/uptrace/bun"

	"lume-api/internal/models"
)

type EventGetter interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

type TicketCounter interface {
	CheckedInCount(ctx context.Context, eventID string) (int, error)
}

// Service aggregates per-event sales, RSVP and check-in metrics.
type Service struct {
	db      *bun.DB
	events  EventGetter
	tickets TicketCounter
}

func NewService(db *bun.DB, events EventGetter, tickets TicketCounter) *Service {
	return &Service{db: db, events: events, tickets: tickets}
}

// EventAnalytics is the dashboard payload for one event.
type EventAnalytics struct {
	EventID          string              `json:"event_id"`
	TicketsSold      int                 `json:"tickets_sold"`
	TicketsAvailable int                 `json:"tickets_available"`
	Revenue          int64               `json:"revenue"`
	CheckedInTickets int                 `json:"checked_in_tickets"`
	RSVPCount        int                 `json:"rsvp_count"`
	RSVPGuests       int                 `json:"rsvp_guests"`
	RSVPCheckedIn    int                 `json:"rsvp_checked_in"`
	DailySales       []DailySalesMetrics `json:"daily_sales"`
}

// DailySalesMetrics buckets ticket issuance by calendar day.
type DailySalesMetrics struct {
	Date          string `json:"date"`
	TicketsIssued int    `json:"tickets_issued"`
	Revenue       int64  `json:"revenue"`
}

// GetEventAnalytics computes the full analytics payload for an event.
func (s *Service) GetEventAnalytics(ctx context.Context, eventID string) (*EventAnalytics, error) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := &EventAnalytics{
		EventID:          eventID,
		TicketsSold:      event.TicketsSold,
		TicketsAvailable: event.TicketsAvailable,
	}

	// Revenue counts confirmed and used tickets; pending and
	// cancelled ones never produced money.
	if err := s.db.NewSelect().
		Model((*models.Ticket)(nil)).
		ColumnExpr("COALESCE(SUM(price_at_purchase), 0)").
		Where("event_id = ?", eventID).
		Where("status IN (?)", bun.In([]string{models.TicketStatusValid, models.TicketStatusUsed})).
		Scan(ctx, &result.Revenue); err != nil {
		return nil, err
	}

	checkedIn, err := s.tickets.CheckedInCount(ctx, eventID)
	if err != nil {
		return nil, err
	}
	result.CheckedInTickets = checkedIn

	if err := s.db.NewSelect().
		Model((*models.RSVP)(nil)).
		ColumnExpr("COUNT(*)").
		ColumnExpr("COALESCE(SUM(quantity), 0)").
		ColumnExpr("COALESCE(SUM(checked_in_guests), 0)").
		Where("event_id = ?", eventID).
		Scan(ctx, &result.RSVPCount, &result.RSVPGuests, &result.RSVPCheckedIn); err != nil {
		return nil, err
	}

	daily, err := s.dailySales(ctx, eventID)
	if err != nil {
		return nil, err
	}
	result.DailySales = daily

	return result, nil
}

func (s *Service) dailySales(ctx context.Context, eventID string) ([]DailySalesMetrics, error) {
	var rows []struct {
		Date          string `bun:"date"`
		TicketsIssued int    `bun:"tickets_issued"`
		Revenue       int64  `bun:"revenue"`
	}

	err := s.db.NewSelect().
		Model((*models.Ticket)(nil)).
		ColumnExpr("TO_CHAR(issued_at, 'YYYY-MM-DD') AS date").
		ColumnExpr("COUNT(*) AS tickets_issued").
		ColumnExpr("COALESCE(SUM(price_at_purchase), 0) AS revenue").
		Where("event_id = ?", eventID).
		Where("status IN (?)", bun.In([]string{models.TicketStatusValid, models.TicketStatusUsed})).
		GroupExpr("TO_CHAR(issued_at, 'YYYY-MM-DD')").
		OrderExpr("date ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	metrics := make([]DailySalesMetrics, 0, len(rows))
	for _, row := range rows {
		metrics = append(metrics, DailySalesMetrics{
			Date:          row.Date,
			TicketsIssued: row.TicketsIssued,
			Revenue:       row.Revenue,
		})
	}
	return metrics, nil
}
