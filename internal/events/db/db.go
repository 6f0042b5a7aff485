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

func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	_, err := d.Bun.NewInsert().Model(event).Exec(ctx)
	return err
}

func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (d *DB) UpdateEvent(ctx context.Context, event models.Event) error {
	event.UpdatedAt = time.Now()
	res, err := d.Bun.NewUpdate().
		Model(&event).
		Column("title", "description", "category", "price", "venue", "address", "city",
			"start_time", "end_time", "status", "updated_at").
		Where("id = ?", event.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apierr.ErrNotFound
	}
	return nil
}

// DeleteEventCascade removes the event together with its RSVPs and
// tickets in a single transaction.
func (d *DB) DeleteEventCascade(ctx context.Context, id string) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.RSVP)(nil)).
			Where("event_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*models.Ticket)(nil)).
			Where("event_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*models.Event)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return apierr.ErrNotFound
		}
		return nil
	})
}

func (d *DB) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	var events []models.Event
	query := d.Bun.NewSelect().Model(&events)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Featured {
		query = query.Where("is_featured = TRUE")
	}
	if filter.Organizer != "" {
		query = query.Where("organizer_id = ?", filter.Organizer)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	count, err := query.
		Order("start_time ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return events, count, nil
}

// SetFlags patches only the provided display flags. Writing the same
// value twice is a no-op at the row level, which keeps toggles
// idempotent.
func (d *DB) SetFlags(ctx context.Context, id string, flags models.EventFlagsRequest) (*models.Event, error) {
	query := d.Bun.NewUpdate().
		Model((*models.Event)(nil)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id)

	if flags.IsFeatured != nil {
		query = query.Set("is_featured = ?", *flags.IsFeatured)
	}
	if flags.IsHot != nil {
		query = query.Set("is_hot = ?", *flags.IsHot)
	}
	if flags.IsUnmissable != nil {
		query = query.Set("is_unmissable = ?", *flags.IsUnmissable)
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, apierr.ErrNotFound
	}
	return d.GetEventByID(ctx, id)
}

func (d *DB) UpdateCategory(ctx context.Context, id, category string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Event)(nil)).
		Set("category = ?", category).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apierr.ErrNotFound
	}
	return nil
}

// ListEventsWithCategoryNotIn returns every event whose category is
// outside the given set. Used by the category migration.
func (d *DB) ListEventsWithCategoryNotIn(ctx context.Context, categories []string) ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Where("category NOT IN (?)", bun.In(categories)).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}
