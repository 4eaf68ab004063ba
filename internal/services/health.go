package services

import (
	"context"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthResult is the body reported by the health endpoint
type HealthResult struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthService implements the health service
type HealthService struct {
	name string
	ping func(ctx context.Context) error
}

// NewHealthService creates a new health service. ping reports database
// reachability.
func NewHealthService(name string, ping func(ctx context.Context) error) *HealthService {
	return &HealthService{name: name, ping: ping}
}

// Check implements the health check method. The result is always populated;
// a non-nil error means the database could not be reached.
func (s *HealthService) Check(ctx context.Context) (*HealthResult, error) {
	if err := s.ping(ctx); err != nil {
		return &HealthResult{Status: statusUnhealthy, Service: s.name}, err
	}
	return &HealthResult{Status: statusHealthy, Service: s.name}, nil
}
