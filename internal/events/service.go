package events

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lume-api/internal/apierr"
	"lume-api/internal/models"
)

// migrationBatchSize bounds how many category updates run at once.
const migrationBatchSize = 10

type DBLayer interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	UpdateEvent(ctx context.Context, event models.Event) error
	DeleteEventCascade(ctx context.Context, id string) error
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	SetFlags(ctx context.Context, id string, flags models.EventFlagsRequest) (*models.Event, error)
	UpdateCategory(ctx context.Context, id, category string) error
	ListEventsWithCategoryNotIn(ctx context.Context, categories []string) ([]models.Event, error)
}

type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

func (s *Service) CreateEvent(ctx context.Context, organizerID string, req models.EventRequest) (*models.Event, error) {
	if err := validateEventRequest(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.EventStatusDraft
	}

	now := time.Now()
	event := &models.Event{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Category:         MapCategory(req.Category),
		Price:            req.Price,
		Venue:            req.Venue,
		Address:          req.Address,
		City:             req.City,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		TicketsAvailable: req.TicketsAvailable,
		TicketsSold:      0,
		OrganizerID:      organizerID,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id is required", apierr.ErrValidation)
	}
	return s.DB.GetEventByID(ctx, id)
}

// GetVisibleEvent applies public visibility: a draft or cancelled
// event reads as not found unless the caller is an admin or its
// organizer.
func (s *Service) GetVisibleEvent(ctx context.Context, id, callerID, callerRole string) (*models.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusPublished &&
		callerRole != models.RoleAdmin && event.OrganizerID != callerID {
		return nil, apierr.ErrNotFound
	}
	return event, nil
}

func (s *Service) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	return s.DB.ListEvents(ctx, filter)
}

// UpdateEvent applies organizer edits. Callers outside the admin
// surface must own the event.
func (s *Service) UpdateEvent(ctx context.Context, id, callerID, callerRole string, req models.EventRequest) (*models.Event, error) {
	if err := validateEventRequest(req); err != nil {
		return nil, err
	}

	event, err := s.DB.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole != models.RoleAdmin && event.OrganizerID != callerID {
		return nil, apierr.ErrForbidden
	}

	event.Title = strings.TrimSpace(req.Title)
	event.Description = req.Description
	event.Category = MapCategory(req.Category)
	event.Price = req.Price
	event.Venue = req.Venue
	event.Address = req.Address
	event.City = req.City
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	if req.Status != "" {
		event.Status = req.Status
	}

	if err := s.DB.UpdateEvent(ctx, *event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes the event and everything hanging off it.
func (s *Service) DeleteEvent(ctx context.Context, id, callerID, callerRole string) error {
	event, err := s.DB.GetEventByID(ctx, id)
	if err != nil {
		return err
	}
	if callerRole != models.RoleAdmin && event.OrganizerID != callerID {
		return apierr.ErrForbidden
	}
	return s.DB.DeleteEventCascade(ctx, id)
}

// SetFlags patches display flags. Repeating the same flag value is a
// no-op, so the operation is idempotent.
func (s *Service) SetFlags(ctx context.Context, id string, flags models.EventFlagsRequest) (*models.Event, error) {
	if flags.IsFeatured == nil && flags.IsHot == nil && flags.IsUnmissable == nil {
		return nil, fmt.Errorf("%w: no flags provided", apierr.ErrValidation)
	}
	return s.DB.SetFlags(ctx, id, flags)
}

// MigrationResult tallies the outcome of a category migration run.
type MigrationResult struct {
	Scanned  int            `json:"scanned"`
	Migrated int            `json:"migrated"`
	Failed   int            `json:"failed"`
	Mapping  map[string]int `json:"mapping"`
}

// MigrateCategories remaps every event whose category is outside the
// base set. Updates run in batches; a failed item is counted and the
// batch carries on.
func (s *Service) MigrateCategories(ctx context.Context) (*MigrationResult, error) {
	stale, err := s.DB.ListEventsWithCategoryNotIn(ctx, BaseCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to list mismatched events: %w", err)
	}

	result := &MigrationResult{
		Scanned: len(stale),
		Mapping: make(map[string]int),
	}

	var mu sync.Mutex
	for start := 0; start < len(stale); start += migrationBatchSize {
		end := start + migrationBatchSize
		if end > len(stale) {
			end = len(stale)
		}

		var wg sync.WaitGroup
		for _, event := range stale[start:end] {
			wg.Add(1)
			go func(event models.Event) {
				defer wg.Done()
				target := MapCategory(event.Category)
				err := s.DB.UpdateCategory(ctx, event.ID, target)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed++
					return
				}
				result.Migrated++
				result.Mapping[target]++
			}(event)
		}
		wg.Wait()
	}

	return result, nil
}

func validateEventRequest(req models.EventRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", apierr.ErrValidation)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", apierr.ErrValidation)
	}
	if req.TicketsAvailable < 0 {
		return fmt.Errorf("%w: tickets_available cannot be negative", apierr.ErrValidation)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", apierr.ErrValidation)
	}
	if req.EndTime.Before(req.StartTime) {
		return fmt.Errorf("%w: end_time precedes start_time", apierr.ErrValidation)
	}
	if req.Status != "" && req.Status != models.EventStatusDraft &&
		req.Status != models.EventStatusPublished && req.Status != models.EventStatusCancelled {
		return fmt.Errorf("%w: invalid status %q", apierr.ErrValidation, req.Status)
	}
	return nil
}
