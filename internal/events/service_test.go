package events_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"lume-api/internal/apierr"
	"lume-api/internal/events"
	"lume-api/internal/models"
)

type MockEventDB struct {
	mu           sync.Mutex
	events       map[string]*models.Event
	deleted      []string
	failCategory map[string]bool
	shouldFailOn string
	errorMsg     string
}

func NewMockEventDB() *MockEventDB {
	return &MockEventDB{
		events:       make(map[string]*models.Event),
		failCategory: make(map[string]bool),
	}
}

func (m *MockEventDB) CreateEvent(ctx context.Context, event *models.Event) error {
	if m.shouldFailOn == "CreateEvent" {
		return errors.New(m.errorMsg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
	return nil
}

func (m *MockEventDB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	if m.shouldFailOn == "GetEventByID" {
		return nil, errors.New(m.errorMsg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	event, exists := m.events[id]
	if !exists {
		return nil, apierr.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (m *MockEventDB) UpdateEvent(ctx context.Context, event models.Event) error {
	if m.shouldFailOn == "UpdateEvent" {
		return errors.New(m.errorMsg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.events[event.ID]; !exists {
		return apierr.ErrNotFound
	}
	m.events[event.ID] = &event
	return nil
}

func (m *MockEventDB) DeleteEventCascade(ctx context.Context, id string) error {
	if m.shouldFailOn == "DeleteEventCascade" {
		return errors.New(m.errorMsg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.events[id]; !exists {
		return apierr.ErrNotFound
	}
	delete(m.events, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *MockEventDB) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Event
	for _, event := range m.events {
		if filter.Status != "" && event.Status != filter.Status {
			continue
		}
		out = append(out, *event)
	}
	return out, len(out), nil
}

func (m *MockEventDB) SetFlags(ctx context.Context, id string, flags models.EventFlagsRequest) (*models.Event, error) {
	if m.shouldFailOn == "SetFlags" {
		return nil, errors.New(m.errorMsg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	event, exists := m.events[id]
	if !exists {
		return nil, apierr.ErrNotFound
	}
	if flags.IsFeatured != nil {
		event.IsFeatured = *flags.IsFeatured
	}
	if flags.IsHot != nil {
		event.IsHot = *flags.IsHot
	}
	if flags.IsUnmissable != nil {
		event.IsUnmissable = *flags.IsUnmissable
	}
	copied := *event
	return &copied, nil
}

func (m *MockEventDB) UpdateCategory(ctx context.Context, id, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, exists := m.events[id]
	if !exists {
		return apierr.ErrNotFound
	}
	if m.failCategory[id] {
		return errors.New("forced update failure")
	}
	event.Category = category
	return nil
}

func (m *MockEventDB) ListEventsWithCategoryNotIn(ctx context.Context, categories []string) ([]models.Event, error) {
	if m.shouldFailOn == "ListEventsWithCategoryNotIn" {
		return nil, errors.New(m.errorMsg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	exclude := make(map[string]bool, len(categories))
	for _, c := range categories {
		exclude[c] = true
	}
	var out []models.Event
	for _, event := range m.events {
		if !exclude[event.Category] {
			out = append(out, *event)
		}
	}
	return out, nil
}

func validEventRequest() models.EventRequest {
	return models.EventRequest{
		Title:            "Harbor Jazz Night",
		Category:         "Music",
		Price:            2000,
		TicketsAvailable: 100,
		StartTime:        time.Now().Add(48 * time.Hour),
		EndTime:          time.Now().Add(51 * time.Hour),
	}
}

func TestCreateEvent(t *testing.T) {
	db := NewMockEventDB()
	service := events.NewService(db)

	event, err := service.CreateEvent(context.Background(), "org1", validEventRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if event.Status != models.EventStatusDraft {
		t.Errorf("Expected draft status by default, got %s", event.Status)
	}
	if event.OrganizerID != "org1" {
		t.Errorf("Expected organizer org1, got %s", event.OrganizerID)
	}
	if event.TicketsSold != 0 {
		t.Errorf("Expected 0 tickets sold, got %d", event.TicketsSold)
	}
}

func TestCreateEventValidation(t *testing.T) {
	service := events.NewService(NewMockEventDB())

	cases := []struct {
		name   string
		mutate func(*models.EventRequest)
	}{
		{"empty title", func(r *models.EventRequest) { r.Title = "  " }},
		{"negative price", func(r *models.EventRequest) { r.Price = -1 }},
		{"negative capacity", func(r *models.EventRequest) { r.TicketsAvailable = -5 }},
		{"missing times", func(r *models.EventRequest) { r.StartTime = time.Time{} }},
		{"end before start", func(r *models.EventRequest) { r.EndTime = r.StartTime.Add(-time.Hour) }},
		{"bad status", func(r *models.EventRequest) { r.Status = "archived" }},
	}

	for _, tc := range cases {
		req := validEventRequest()
		tc.mutate(&req)
		if _, err := service.CreateEvent(context.Background(), "org1", req); !errors.Is(err, apierr.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateEventMapsLegacyCategory(t *testing.T) {
	service := events.NewService(NewMockEventDB())

	req := validEventRequest()
	req.Category = "Concerts"
	event, err := service.CreateEvent(context.Background(), "org1", req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if event.Category != "Music" {
		t.Errorf("Expected legacy category mapped to Music, got %s", event.Category)
	}
}

func TestGetVisibleEvent(t *testing.T) {
	db := NewMockEventDB()
	service := events.NewService(db)

	draft, err := service.CreateEvent(context.Background(), "org1", validEventRequest())
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	// Anonymous and unrelated callers cannot see a draft.
	if _, err := service.GetVisibleEvent(context.Background(), draft.ID, "", ""); !errors.Is(err, apierr.ErrNotFound) {
		t.Errorf("Expected not found for anonymous caller, got %v", err)
	}
	if _, err := service.GetVisibleEvent(context.Background(), draft.ID, "org2", models.RoleOrganizer); !errors.Is(err, apierr.ErrNotFound) {
		t.Errorf("Expected not found for non-owner, got %v", err)
	}

	// The organizer and admins can.
	if _, err := service.GetVisibleEvent(context.Background(), draft.ID, "org1", models.RoleOrganizer); err != nil {
		t.Errorf("Owner fetch failed: %v", err)
	}
	if _, err := service.GetVisibleEvent(context.Background(), draft.ID, "someone-else", models.RoleAdmin); err != nil {
		t.Errorf("Admin fetch failed: %v", err)
	}

	// Published events are visible to everyone.
	req := validEventRequest()
	req.Status = models.EventStatusPublished
	published, err := service.CreateEvent(context.Background(), "org1", req)
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if _, err := service.GetVisibleEvent(context.Background(), published.ID, "", ""); err != nil {
		t.Errorf("Anonymous fetch of published event failed: %v", err)
	}
}

func TestUpdateEventOwnership(t *testing.T) {
	db := NewMockEventDB()
	service := events.NewService(db)

	event, err := service.CreateEvent(context.Background(), "org1", validEventRequest())
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	req := validEventRequest()
	req.Title = "Renamed"

	// Another organizer cannot touch it.
	if _, err := service.UpdateEvent(context.Background(), event.ID, "org2", models.RoleOrganizer, req); !errors.Is(err, apierr.ErrForbidden) {
		t.Errorf("Expected forbidden for non-owner, got %v", err)
	}

	// The owner can.
	updated, err := service.UpdateEvent(context.Background(), event.ID, "org1", models.RoleOrganizer, req)
	if err != nil {
		t.Fatalf("Owner update failed: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Expected title Renamed, got %s", updated.Title)
	}

	// Admins bypass ownership.
	req.Title = "Renamed Again"
	if _, err := service.UpdateEvent(context.Background(), event.ID, "someone-else", models.RoleAdmin, req); err != nil {
		t.Errorf("Admin update failed: %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	db := NewMockEventDB()
	service := events.NewService(db)

	event, err := service.CreateEvent(context.Background(), "org1", validEventRequest())
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if err := service.DeleteEvent(context.Background(), event.ID, "org2", models.RoleOrganizer); !errors.Is(err, apierr.ErrForbidden) {
		t.Errorf("Expected forbidden for non-owner delete, got %v", err)
	}

	if err := service.DeleteEvent(context.Background(), event.ID, "org1", models.RoleOrganizer); err != nil {
		t.Fatalf("Owner delete failed: %v", err)
	}
	if len(db.deleted) != 1 || db.deleted[0] != event.ID {
		t.Errorf("Expected cascade delete of %s, got %v", event.ID, db.deleted)
	}
}

func TestSetFlagsIdempotent(t *testing.T) {
	db := NewMockEventDB()
	service := events.NewService(db)

	event, err := service.CreateEvent(context.Background(), "org1", validEventRequest())
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	yes := true
	flagged, err := service.SetFlags(context.Background(), event.ID, models.EventFlagsRequest{IsFeatured: &yes})
	if err != nil {
		t.Fatalf("SetFlags failed: %v", err)
	}
	if !flagged.IsFeatured {
		t.Error("Expected is_featured true")
	}
	if flagged.IsHot || flagged.IsUnmissable {
		t.Error("Omitted flags must be untouched")
	}

	// Repeating the same toggle lands in the same state.
	again, err := service.SetFlags(context.Background(), event.ID, models.EventFlagsRequest{IsFeatured: &yes})
	if err != nil {
		t.Fatalf("Repeated SetFlags failed: %v", err)
	}
	if !again.IsFeatured {
		t.Error("Expected is_featured to remain true")
	}
}

func TestSetFlagsRequiresAtLeastOne(t *testing.T) {
	service := events.NewService(NewMockEventDB())

	_, err := service.SetFlags(context.Background(), "event1", models.EventFlagsRequest{})
	if !errors.Is(err, apierr.ErrValidation) {
		t.Errorf("Expected validation error for empty flag patch, got %v", err)
	}
}

func TestMapCategory(t *testing.T) {
	cases := map[string]string{
		"Music":        "Music",
		"Concerts":     "Music",
		"Clubbing":     "Nightlife",
		"Workshops":    "Business",
		"Volunteering": "Community",
		"Underwater":   "Other",
		"":             "Other",
	}
	for input, want := range cases {
		if got := events.MapCategory(input); got != want {
			t.Errorf("MapCategory(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMigrateCategories(t *testing.T) {
	db := NewMockEventDB()
	service := events.NewService(db)

	// 23 stale events exercises multiple batches plus a partial one.
	for i := 0; i < 23; i++ {
		id := fmt.Sprintf("event%d", i)
		db.events[id] = &models.Event{ID: id, Category: "Concerts"}
	}
	db.events["fresh"] = &models.Event{ID: "fresh", Category: "Music"}

	result, err := service.MigrateCategories(context.Background())
	if err != nil {
		t.Fatalf("MigrateCategories failed: %v", err)
	}

	if result.Scanned != 23 {
		t.Errorf("Expected 23 scanned, got %d", result.Scanned)
	}
	if result.Migrated != 23 {
		t.Errorf("Expected 23 migrated, got %d", result.Migrated)
	}
	if result.Failed != 0 {
		t.Errorf("Expected 0 failed, got %d", result.Failed)
	}
	if result.Mapping["Music"] != 23 {
		t.Errorf("Expected 23 mapped to Music, got %d", result.Mapping["Music"])
	}

	for i := 0; i < 23; i++ {
		id := fmt.Sprintf("event%d", i)
		if db.events[id].Category != "Music" {
			t.Errorf("Event %s not migrated, category %s", id, db.events[id].Category)
		}
	}
}

func TestMigrateCategoriesTalliesFailures(t *testing.T) {
	db := NewMockEventDB()
	service := events.NewService(db)

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("event%d", i)
		db.events[id] = &models.Event{ID: id, Category: "Tastings"}
	}
	db.failCategory["event2"] = true
	db.failCategory["event4"] = true

	result, err := service.MigrateCategories(context.Background())
	if err != nil {
		t.Fatalf("MigrateCategories failed: %v", err)
	}

	if result.Migrated != 3 {
		t.Errorf("Expected 3 migrated, got %d", result.Migrated)
	}
	if result.Failed != 2 {
		t.Errorf("Expected 2 failed, got %d", result.Failed)
	}

	// The failed items keep their stale category for the next run.
	if db.events["event2"].Category != "Tastings" {
		t.Errorf("Failed item must keep its category, got %s", db.events["event2"].Category)
	}
}
