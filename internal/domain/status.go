package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusCheck is a client health ping
type StatusCheck struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ClientName string    `gorm:"size:200;not null" json:"client_name"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName specifies the table name for StatusCheck
func (StatusCheck) TableName() string {
	return "status_checks"
}

// BeforeCreate hook
func (s *StatusCheck) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = Now()
	}
	return nil
}
