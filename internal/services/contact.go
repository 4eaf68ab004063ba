package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"j2systems/internal/domain"
	"j2systems/internal/metrics"
	"j2systems/internal/store"
)

// Notifier is told about every newly stored contact message
type Notifier interface {
	NotifyNewContact(ctx context.Context, msg *domain.ContactMessage) error
}

// ContactPayload is a validated, normalized contact form submission
type ContactPayload struct {
	Name    string
	Email   string
	Company *string
	Message string
}

// ContactService implements the contact service
type ContactService struct {
	store    store.ContactStore
	notifier Notifier
	log      *zap.SugaredLogger

	pending sync.WaitGroup
}

// NewContactService creates a new contact service
func NewContactService(contacts store.ContactStore, notifier Notifier, log *zap.SugaredLogger) *ContactService {
	return &ContactService{
		store:    contacts,
		notifier: notifier,
		log:      log.Named("contact"),
	}
}

// Create stores a new contact message and schedules the operator
// notification. The response never waits on, nor fails because of, delivery.
func (s *ContactService) Create(ctx context.Context, p *ContactPayload) (*domain.ContactMessage, error) {
	s.log.Infow("Create request", "name", p.Name, "email", p.Email)

	msg := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      p.Name,
		Email:     p.Email,
		Company:   p.Company,
		Message:   p.Message,
		CreatedAt: domain.Now(),
	}

	created, err := s.store.Insert(ctx, msg)
	if err != nil {
		s.log.Errorw("Create failed: database error", "error", err)
		return nil, err
	}

	s.log.Infow("Create successful", "id", created.ID, "email", created.Email)
	metrics.RecordContactSubmission()

	snapshot := *created
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.notify(context.WithoutCancel(ctx), &snapshot)
	}()

	return created, nil
}

func (s *ContactService) notify(ctx context.Context, msg *domain.ContactMessage) {
	err := s.notifier.NotifyNewContact(ctx, msg)
	metrics.RecordNotification(err)
	if err != nil {
		s.log.Warnw("Failed to send notification email", "id", msg.ID, "error", err)
		return
	}
	s.log.Infow("Notification email sent", "id", msg.ID)
}

// Wait blocks until every scheduled notification has finished
func (s *ContactService) Wait() {
	s.pending.Wait()
}

// List returns all contact messages, newest first
func (s *ContactService) List(ctx context.Context) ([]*domain.ContactMessage, error) {
	msgs, err := s.store.ListAll(ctx)
	if err != nil {
		s.log.Errorw("List failed: database error", "error", err)
		return nil, err
	}
	s.log.Debugw("List successful", "count", len(msgs))
	return msgs, nil
}

// Get returns a single contact message
func (s *ContactService) Get(ctx context.Context, id string) (*domain.ContactMessage, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateStatus changes the read/replied flags present in upd
func (s *ContactService) UpdateStatus(ctx context.Context, id string, upd domain.StatusUpdate) (*domain.ContactMessage, error) {
	msg, err := s.store.UpdateStatus(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	metrics.RecordStatusUpdate(upd.Read != nil, upd.Replied != nil)
	s.log.Infow("Status updated", "id", msg.ID, "read", msg.Read, "replied", msg.Replied)
	return msg, nil
}
