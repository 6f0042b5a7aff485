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

func (d *DB) CreateMessage(ctx context.Context, msg *models.ContactMessage) error {
	_, err := d.Bun.NewInsert().Model(msg).Exec(ctx)
	return err
}

func (d *DB) GetMessageByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	err := d.Bun.NewSelect().
		Model(&msg).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (d *DB) ListMessages(ctx context.Context, status string, limit, offset int) ([]models.ContactMessage, int, error) {
	var msgs []models.ContactMessage
	query := d.Bun.NewSelect().Model(&msgs)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	count, err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return msgs, count, nil
}

func (d *DB) UpdateStatus(ctx context.Context, id, status, notes string) error {
	query := d.Bun.NewUpdate().
		Model((*models.ContactMessage)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id)
	if notes != "" {
		query = query.Set("notes = ?", notes)
	}
	res, err := query.Exec(ctx)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apierr.ErrNotFound
	}
	return nil
}

func (d *DB) SetAdminResponse(ctx context.Context, id, response string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.ContactMessage)(nil)).
		Set("admin_response = ?", response).
		Set("status = ?", models.ContactStatusResolved).
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
