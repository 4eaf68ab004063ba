// Package store persists contact messages and status checks through gorm.
package store

import (
	"time"

	"j2systems/internal/metrics"
	apperrors "j2systems/pkg/errors"
)

// listLimit caps list results so a large table cannot exhaust memory. It is
// not a pagination mechanism.
const listLimit = 1000

// observe records the duration and outcome of a store operation
func observe(operation string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, time.Since(start), err)
}

func persistenceError(message string, err error) error {
	return apperrors.Wrap(apperrors.ErrCodePersistence, message, err)
}
