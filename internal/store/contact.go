package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"j2systems/internal/domain"
	apperrors "j2systems/pkg/errors"
)

// ContactStore defines persistence for contact messages
type ContactStore interface {
	Insert(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error)
	ListAll(ctx context.Context) ([]*domain.ContactMessage, error)
	GetByID(ctx context.Context, id string) (*domain.ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, upd domain.StatusUpdate) (*domain.ContactMessage, error)
}

// GormContactStore is the gorm implementation of ContactStore
type GormContactStore struct {
	db *gorm.DB
}

// Ensure GormContactStore implements ContactStore at compile time.
var _ ContactStore = (*GormContactStore)(nil)

// NewContactStore creates a contact store backed by db
func NewContactStore(db *gorm.DB) *GormContactStore {
	return &GormContactStore{db: db}
}

// Insert writes a new contact message. ID and CreatedAt are assigned when unset.
func (s *GormContactStore) Insert(ctx context.Context, msg *domain.ContactMessage) (_ *domain.ContactMessage, err error) {
	start := time.Now()
	defer func() { observe("contact_insert", start, err) }()

	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, persistenceError("failed to save contact message", err)
	}
	return msg, nil
}

// ListAll returns every contact message, newest first
func (s *GormContactStore) ListAll(ctx context.Context) (_ []*domain.ContactMessage, err error) {
	start := time.Now()
	defer func() { observe("contact_list", start, err) }()

	messages := make([]*domain.ContactMessage, 0)
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&messages).Error; err != nil {
		return nil, persistenceError("failed to fetch contact messages", err)
	}
	return messages, nil
}

// GetByID returns the message with the given id or a NOT_FOUND error
func (s *GormContactStore) GetByID(ctx context.Context, id string) (_ *domain.ContactMessage, err error) {
	start := time.Now()
	defer func() { observe("contact_get", start, err) }()

	var msg domain.ContactMessage
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "contact message not found")
		}
		return nil, persistenceError("failed to fetch contact message", err)
	}
	return &msg, nil
}

// UpdateStatus applies only the flags present in upd and returns the updated
// message. The write and the re-read share one transaction.
func (s *GormContactStore) UpdateStatus(ctx context.Context, id string, upd domain.StatusUpdate) (_ *domain.ContactMessage, err error) {
	if upd.IsEmpty() {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "no fields to update")
	}
	start := time.Now()
	defer func() { observe("contact_update", start, err) }()

	var msg domain.ContactMessage
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.ContactMessage{}).Where("id = ?", id).Updates(upd.Columns())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&msg).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "contact message not found")
		}
		return nil, persistenceError("failed to update contact message", txErr)
	}
	return &msg, nil
}
