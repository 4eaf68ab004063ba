package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"j2systems/internal/domain"
)

// StatusStore defines persistence for status checks
type StatusStore interface {
	Insert(ctx context.Context, check *domain.StatusCheck) (*domain.StatusCheck, error)
	ListAll(ctx context.Context) ([]*domain.StatusCheck, error)
}

// GormStatusStore is the gorm implementation of StatusStore
type GormStatusStore struct {
	db *gorm.DB
}

var _ StatusStore = (*GormStatusStore)(nil)

// NewStatusStore creates a status store backed by db
func NewStatusStore(db *gorm.DB) *GormStatusStore {
	return &GormStatusStore{db: db}
}

func (s *GormStatusStore) Insert(ctx context.Context, check *domain.StatusCheck) (_ *domain.StatusCheck, err error) {
	start := time.Now()
	defer func() { observe("status_insert", start, err) }()

	if err := s.db.WithContext(ctx).Create(check).Error; err != nil {
		return nil, persistenceError("failed to save status check", err)
	}
	return check, nil
}

// ListAll returns status checks in the order they were recorded
func (s *GormStatusStore) ListAll(ctx context.Context) (_ []*domain.StatusCheck, err error) {
	start := time.Now()
	defer func() { observe("status_list", start, err) }()

	checks := make([]*domain.StatusCheck, 0)
	if err := s.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Limit(listLimit).
		Find(&checks).Error; err != nil {
		return nil, persistenceError("failed to fetch status checks", err)
	}
	return checks, nil
}
