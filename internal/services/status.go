package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"j2systems/internal/domain"
	"j2systems/internal/metrics"
	"j2systems/internal/store"
)

// StatusService records client liveness checks
type StatusService struct {
	store store.StatusStore
	log   *zap.SugaredLogger
}

// NewStatusService creates a new status service
func NewStatusService(checks store.StatusStore, log *zap.SugaredLogger) *StatusService {
	return &StatusService{store: checks, log: log.Named("status")}
}

// Create stores a status check for clientName
func (s *StatusService) Create(ctx context.Context, clientName string) (*domain.StatusCheck, error) {
	check, err := s.store.Insert(ctx, &domain.StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  domain.Now(),
	})
	if err != nil {
		s.log.Errorw("Create failed: database error", "error", err)
		return nil, err
	}
	metrics.RecordStatusCheck()
	return check, nil
}

// List returns all recorded status checks
func (s *StatusService) List(ctx context.Context) ([]*domain.StatusCheck, error) {
	return s.store.ListAll(ctx)
}
