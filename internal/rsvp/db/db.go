package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"lume-api/internal/apierr"
	"lume-api/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateRSVP reserves capacity and persists the RSVP in one
// transaction. The decrement is a single conditional UPDATE, so two
// concurrent RSVPs can never jointly oversell: whichever statement
// runs second sees the already-reduced counter and matches zero rows
// once capacity is gone.
func (d *DB) CreateRSVP(ctx context.Context, rsvp *models.RSVP) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Event)(nil)).
			Set("tickets_available = tickets_available - ?", rsvp.Quantity).
			Set("tickets_sold = tickets_sold + ?", rsvp.Quantity).
			Where("id = ?", rsvp.EventID).
			Where("tickets_available >= ?", rsvp.Quantity).
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			exists, err := tx.NewSelect().
				Model((*models.Event)(nil)).
				Where("id = ?", rsvp.EventID).
				Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return apierr.ErrNotFound
			}
			return apierr.ErrCapacityExceeded
		}

		if _, err := tx.NewInsert().Model(rsvp).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				// Rolls back the decrement along with the insert.
				return apierr.ErrDuplicateRSVP
			}
			return err
		}
		return nil
	})
}

func (d *DB) GetRSVPByID(ctx context.Context, id string) (*models.RSVP, error) {
	var rsvp models.RSVP
	err := d.Bun.NewSelect().
		Model(&rsvp).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &rsvp, nil
}

// SetCheckedInGuests persists a new checked-in count. The quantity
// bound is enforced in the WHERE clause so a stale read cannot push
// the count past the RSVP's size.
func (d *DB) SetCheckedInGuests(ctx context.Context, id string, checkedIn int) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.RSVP)(nil)).
		Set("checked_in_guests = ?", checkedIn).
		Where("id = ?", id).
		Where("quantity >= ?", checkedIn).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		exists, err := d.Bun.NewSelect().
			Model((*models.RSVP)(nil)).
			Where("id = ?", id).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return apierr.ErrNotFound
		}
		return apierr.ErrCheckInBounds
	}
	return nil
}

func (d *DB) ListRSVPs(ctx context.Context, eventID, email string, limit, offset int) ([]models.RSVP, error) {
	var rsvps []models.RSVP
	query := d.Bun.NewSelect().Model(&rsvps)

	if eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}
	if email != "" {
		query = query.Where("LOWER(email) = LOWER(?)", email)
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}
	return rsvps, nil
}

// CountRSVPs returns the record count and total guest quantity for
// the same filter ListRSVPs uses.
func (d *DB) CountRSVPs(ctx context.Context, eventID, email string) (int, int, error) {
	query := d.Bun.NewSelect().
		Model((*models.RSVP)(nil)).
		ColumnExpr("COUNT(*)").
		ColumnExpr("COALESCE(SUM(quantity), 0)")

	if eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}
	if email != "" {
		query = query.Where("LOWER(email) = LOWER(?)", email)
	}

	var count, totalGuests int
	if err := query.Scan(ctx, &count, &totalGuests); err != nil {
		return 0, 0, err
	}
	return count, totalGuests, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
