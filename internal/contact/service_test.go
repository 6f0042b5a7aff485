package contact_test

import (
	"context"
	"errors"
	"testing"

	"lume-api/internal/apierr"
	"lume-api/internal/contact"
	"lume-api/internal/models"
)

type MockContactDB struct {
	messages     map[string]*models.ContactMessage
	shouldFailOn string
	errorMsg     string
}

func NewMockContactDB() *MockContactDB {
	return &MockContactDB{messages: make(map[string]*models.ContactMessage)}
}

func (m *MockContactDB) CreateMessage(ctx context.Context, msg *models.ContactMessage) error {
	if m.shouldFailOn == "CreateMessage" {
		return errors.New(m.errorMsg)
	}
	m.messages[msg.ID] = msg
	return nil
}

func (m *MockContactDB) GetMessageByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	msg, exists := m.messages[id]
	if !exists {
		return nil, apierr.ErrNotFound
	}
	return msg, nil
}

func (m *MockContactDB) ListMessages(ctx context.Context, status string, limit, offset int) ([]models.ContactMessage, int, error) {
	var out []models.ContactMessage
	for _, msg := range m.messages {
		if status != "" && msg.Status != status {
			continue
		}
		out = append(out, *msg)
	}
	return out, len(out), nil
}

func (m *MockContactDB) UpdateStatus(ctx context.Context, id, status, notes string) error {
	msg, exists := m.messages[id]
	if !exists {
		return apierr.ErrNotFound
	}
	msg.Status = status
	if notes != "" {
		msg.Notes = notes
	}
	return nil
}

func (m *MockContactDB) SetAdminResponse(ctx context.Context, id, response string) error {
	msg, exists := m.messages[id]
	if !exists {
		return apierr.ErrNotFound
	}
	msg.AdminResponse = response
	msg.Status = models.ContactStatusResolved
	return nil
}

type MockContactPublisher struct {
	published []models.ContactMessage
}

func (m *MockContactPublisher) PublishContactCreated(msg models.ContactMessage) error {
	m.published = append(m.published, msg)
	return nil
}

type MockMailer struct {
	sent       []string
	shouldFail bool
}

func (m *MockMailer) Send(to, subject, body string) error {
	if m.shouldFail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func setupContactService() (*contact.Service, *MockContactDB, *MockContactPublisher, *MockMailer) {
	db := NewMockContactDB()
	producer := &MockContactPublisher{}
	mailer := &MockMailer{}
	service := contact.NewService(db, producer, mailer, nil, "admin@lume.local")
	return service, db, producer, mailer
}

func validContactRequest() models.ContactRequest {
	return models.ContactRequest{
		Name:    "Dana Field",
		Email:   "dana@example.com",
		Subject: "Refund question",
		Message: "Can I transfer my ticket to a friend?",
	}
}

func TestCreateContactMessage(t *testing.T) {
	service, db, producer, mailer := setupContactService()

	msg, err := service.Create(context.Background(), validContactRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if msg.Status != models.ContactStatusNew {
		t.Errorf("Expected status new, got %s", msg.Status)
	}
	if _, exists := db.messages[msg.ID]; !exists {
		t.Error("Message not persisted")
	}
	if len(producer.published) != 1 {
		t.Errorf("Expected 1 published event, got %d", len(producer.published))
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "admin@lume.local" {
		t.Errorf("Expected admin notification, got %v", mailer.sent)
	}
}

func TestCreateContactMessageRequiresAllFields(t *testing.T) {
	service, db, _, _ := setupContactService()

	cases := []struct {
		name   string
		mutate func(*models.ContactRequest)
	}{
		{"missing name", func(r *models.ContactRequest) { r.Name = "" }},
		{"missing email", func(r *models.ContactRequest) { r.Email = "  " }},
		{"missing subject", func(r *models.ContactRequest) { r.Subject = "" }},
		{"missing message", func(r *models.ContactRequest) { r.Message = "\n" }},
	}

	for _, tc := range cases {
		req := validContactRequest()
		tc.mutate(&req)
		if _, err := service.Create(context.Background(), req); !errors.Is(err, apierr.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
	if len(db.messages) != 0 {
		t.Errorf("Nothing may persist on validation failure, got %d messages", len(db.messages))
	}
}

func TestCreateContactMessageSurvivesMailFailure(t *testing.T) {
	service, db, _, mailer := setupContactService()
	mailer.shouldFail = true

	msg, err := service.Create(context.Background(), validContactRequest())
	if err != nil {
		t.Fatalf("Mail failure must not fail the create, got %v", err)
	}
	if _, exists := db.messages[msg.ID]; !exists {
		t.Error("Message not persisted despite mail failure")
	}
}

func TestSetContactStatus(t *testing.T) {
	service, _, _, _ := setupContactService()

	msg, err := service.Create(context.Background(), validContactRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := service.SetStatus(context.Background(), msg.ID, models.ContactStatusRequest{
		Status: models.ContactStatusInProgress,
		Notes:  "waiting on organizer",
	})
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if updated.Status != models.ContactStatusInProgress {
		t.Errorf("Expected in-progress, got %s", updated.Status)
	}
	if updated.Notes != "waiting on organizer" {
		t.Errorf("Expected notes stored, got %q", updated.Notes)
	}
}

func TestSetContactStatusRejectsUnknown(t *testing.T) {
	service, _, _, _ := setupContactService()

	msg, err := service.Create(context.Background(), validContactRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = service.SetStatus(context.Background(), msg.ID, models.ContactStatusRequest{Status: "closed"})
	if !errors.Is(err, apierr.ErrValidation) {
		t.Errorf("Expected validation error for unknown status, got %v", err)
	}
}

func TestListContactMessagesStatusFilter(t *testing.T) {
	service, _, _, _ := setupContactService()

	if _, err := service.Create(context.Background(), validContactRequest()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	msgs, count, err := service.List(context.Background(), models.ContactStatusNew, 20, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if count != 1 || len(msgs) != 1 {
		t.Errorf("Expected 1 new message, got count=%d len=%d", count, len(msgs))
	}

	if _, _, err := service.List(context.Background(), "spam", 20, 0); !errors.Is(err, apierr.ErrValidation) {
		t.Errorf("Expected validation error for unknown filter, got %v", err)
	}
}

func TestRespondResolvesAndEmails(t *testing.T) {
	service, _, _, mailer := setupContactService()

	msg, err := service.Create(context.Background(), validContactRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	mailer.sent = nil

	resolved, err := service.Respond(context.Background(), msg.ID, "Yes, tickets are transferable.")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if resolved.Status != models.ContactStatusResolved {
		t.Errorf("Expected resolved status, got %s", resolved.Status)
	}
	if resolved.AdminResponse == "" {
		t.Error("Expected admin response stored")
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "dana@example.com" {
		t.Errorf("Expected reply sent to the sender, got %v", mailer.sent)
	}
}

func TestRespondRequiresBody(t *testing.T) {
	service, _, _, _ := setupContactService()

	_, err := service.Respond(context.Background(), "any", "   ")
	if !errors.Is(err, apierr.ErrValidation) {
		t.Errorf("Expected validation error for empty response, got %v", err)
	}
}
