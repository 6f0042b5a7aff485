package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"lume-api/internal/admin/api"
	"lume-api/internal/apierr"
	"lume-api/internal/events"
	"lume-api/internal/models"
)

type stubEventDB struct {
	events map[string]*models.Event
}

func (s *stubEventDB) CreateEvent(ctx context.Context, event *models.Event) error {
	s.events[event.ID] = event
	return nil
}

func (s *stubEventDB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	event, exists := s.events[id]
	if !exists {
		return nil, apierr.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (s *stubEventDB) UpdateEvent(ctx context.Context, event models.Event) error {
	if _, exists := s.events[event.ID]; !exists {
		return apierr.ErrNotFound
	}
	s.events[event.ID] = &event
	return nil
}

func (s *stubEventDB) DeleteEventCascade(ctx context.Context, id string) error {
	if _, exists := s.events[id]; !exists {
		return apierr.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *stubEventDB) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	var out []models.Event
	for _, event := range s.events {
		out = append(out, *event)
	}
	return out, len(out), nil
}

func (s *stubEventDB) SetFlags(ctx context.Context, id string, flags models.EventFlagsRequest) (*models.Event, error) {
	return s.GetEventByID(ctx, id)
}

func (s *stubEventDB) UpdateCategory(ctx context.Context, id, category string) error {
	return nil
}

func (s *stubEventDB) ListEventsWithCategoryNotIn(ctx context.Context, categories []string) ([]models.Event, error) {
	return nil, nil
}

func setupAdminRouter(db *stubEventDB) *chi.Mux {
	handler := api.NewHandler(nil, events.NewService(db), nil)

	r := chi.NewRouter()
	r.Route("/api", handler.RegisterRoutes)
	return r
}

func TestAdminUpdateEvent(t *testing.T) {
	db := &stubEventDB{events: map[string]*models.Event{
		"event1": {
			ID:          "event1",
			Title:       "Harbor Jazz Night",
			Category:    "Music",
			Price:       2000,
			OrganizerID: "org1",
			Status:      models.EventStatusPublished,
		},
	}}
	router := setupAdminRouter(db)

	payload, err := json.Marshal(models.EventRequest{
		Title:            "Harbor Jazz Night (Rescheduled)",
		Category:         "Music",
		Price:            2000,
		TicketsAvailable: 80,
		StartTime:        time.Now().Add(72 * time.Hour),
		EndTime:          time.Now().Add(75 * time.Hour),
	})
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/events/event1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Admins edit regardless of who owns the event.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Harbor Jazz Night (Rescheduled)", db.events["event1"].Title)
}

func TestAdminUpdateEventMissing(t *testing.T) {
	router := setupAdminRouter(&stubEventDB{events: map[string]*models.Event{}})

	payload, err := json.Marshal(models.EventRequest{
		Title:            "Ghost Event",
		Category:         "Music",
		TicketsAvailable: 10,
		StartTime:        time.Now().Add(24 * time.Hour),
		EndTime:          time.Now().Add(26 * time.Hour),
	})
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/events/missing", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
