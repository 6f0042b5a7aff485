package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"lume-api/internal/apierr"
	"lume-api/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateTicket reserves one unit of event capacity and inserts the
// ticket in the same transaction. Same conditional-decrement shape
// as RSVP admission, so concurrent purchases cannot oversell.
func (d *DB) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Event)(nil)).
			Set("tickets_available = tickets_available - 1").
			Set("tickets_sold = tickets_sold + 1").
			Where("id = ?", ticket.EventID).
			Where("tickets_available >= 1").
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			exists, err := tx.NewSelect().
				Model((*models.Event)(nil)).
				Where("id = ?", ticket.EventID).
				Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return apierr.ErrNotFound
			}
			return apierr.ErrCapacityExceeded
		}

		_, err = tx.NewInsert().Model(ticket).Exec(ctx)
		return err
	})
}

func (d *DB) GetTicketByID(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (d *DB) GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("ticket_code = ?", code).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// ConfirmTicket transitions pending -> valid. Zero rows means the
// ticket is missing or already left the pending state.
func (d *DB) ConfirmTicket(ctx context.Context, id string) (*models.Ticket, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Ticket)(nil)).
		Set("status = ?", models.TicketStatusValid).
		Where("id = ?", id).
		Where("status = ?", models.TicketStatusPending).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		ticket, err := d.GetTicketByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ticket.Status == models.TicketStatusValid || ticket.Status == models.TicketStatusUsed {
			return nil, apierr.ErrAlreadyUsed
		}
		return nil, apierr.ErrNotFound
	}
	return d.GetTicketByID(ctx, id)
}

// checkIn marks a located ticket used, guarded by status in the
// WHERE clause so a second attempt mutates nothing.
func (d *DB) checkIn(ctx context.Context, query *bun.UpdateQuery, fetch func() (*models.Ticket, error)) (*models.Ticket, error) {
	res, err := query.
		Set("status = ?", models.TicketStatusUsed).
		Set("checked_in_at = ?", time.Now()).
		Where("status = ?", models.TicketStatusValid).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		ticket, err := fetch()
		if err != nil {
			return nil, err
		}
		if ticket.Status == models.TicketStatusUsed {
			return nil, apierr.ErrAlreadyUsed
		}
		// Pending or cancelled tickets are not admissible.
		return nil, apierr.ErrNotFound
	}
	return fetch()
}

func (d *DB) CheckInByID(ctx context.Context, id string) (*models.Ticket, error) {
	query := d.Bun.NewUpdate().
		Model((*models.Ticket)(nil)).
		Where("id = ?", id)
	return d.checkIn(ctx, query, func() (*models.Ticket, error) {
		return d.GetTicketByID(ctx, id)
	})
}

func (d *DB) CheckInByCode(ctx context.Context, code, eventID string) (*models.Ticket, error) {
	query := d.Bun.NewUpdate().
		Model((*models.Ticket)(nil)).
		Where("ticket_code = ?", code)
	if eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}
	return d.checkIn(ctx, query, func() (*models.Ticket, error) {
		ticket, err := d.GetTicketByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if eventID != "" && ticket.EventID != eventID {
			return nil, apierr.ErrNotFound
		}
		return ticket, nil
	})
}

// CancelPendingTicket voids an unpaid ticket and re-credits the
// event's capacity. Only fires while the ticket is still pending, so
// a purchase confirmed moments before the hold expired is untouched.
func (d *DB) CancelPendingTicket(ctx context.Context, id string) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var ticket models.Ticket
		err := tx.NewSelect().
			Model(&ticket).
			Where("id = ?", id).
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apierr.ErrNotFound
			}
			return err
		}

		res, err := tx.NewUpdate().
			Model((*models.Ticket)(nil)).
			Set("status = ?", models.TicketStatusCancelled).
			Where("id = ?", id).
			Where("status = ?", models.TicketStatusPending).
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			// Confirmed or already cancelled; nothing to release.
			return nil
		}

		_, err = tx.NewUpdate().
			Model((*models.Event)(nil)).
			Set("tickets_available = tickets_available + 1").
			Set("tickets_sold = tickets_sold - 1").
			Where("id = ?", ticket.EventID).
			Exec(ctx)
		return err
	})
}

func (d *DB) ListTicketsByEvent(ctx context.Context, eventID string, limit, offset int) ([]models.Ticket, int, error) {
	var tickets []models.Ticket
	query := d.Bun.NewSelect().
		Model(&tickets).
		Where("event_id = ?", eventID).
		Order("issued_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	count, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return tickets, count, nil
}

// CountCheckedIn returns how many tickets for an event have been used.
func (d *DB) CountCheckedIn(ctx context.Context, eventID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Where("event_id = ?", eventID).
		Where("status = ?", models.TicketStatusUsed).
		Count(ctx)
}
