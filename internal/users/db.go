package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"lume-api/internal/apierr"
	"lume-api/internal/models"
)

// ErrEmailTaken is returned when registering an address that already
// has an account.
var ErrEmailTaken = errors.New("email already registered")

type DB struct {
	Bun *bun.DB
}

func NewDB(b *bun.DB) *DB {
	return &DB{Bun: b}
}

func (d *DB) CreateUser(ctx context.Context, user *models.User) error {
	_, err := d.Bun.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (d *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers pages through accounts, optionally filtered by role.
func (d *DB) ListUsers(ctx context.Context, role string, limit, offset int) ([]models.User, int, error) {
	var users []models.User
	query := d.Bun.NewSelect().Model(&users)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	count, err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

// SetActive suspends or reactivates an account. Writing the current
// value is a no-op.
func (d *DB) SetActive(ctx context.Context, id string, active bool) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_active = ?", active).
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

// SetVerified flips organizer verification.
func (d *DB) SetVerified(ctx context.Context, id string, verified bool) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_verified = ?", verified).
		Where("id = ?", id).
		Where("role = ?", models.RoleOrganizer).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apierr.ErrNotFound
	}
	return nil
}

func (d *DB) DeleteUser(ctx context.Context, id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.User)(nil)).
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
