package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage represents a landing-page contact form submission
type ContactMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Email     string    `gorm:"size:320;not null;index" json:"email"`
	Company   *string   `gorm:"size:200" json:"company"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	Read      bool      `gorm:"not null" json:"read"`
	Replied   bool      `gorm:"not null" json:"replied"`
}

// TableName specifies the table name for ContactMessage
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// BeforeCreate assigns the identifier and creation time when the caller left them unset
func (c *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = Now()
	}
	return nil
}

// StatusUpdate is a partial update of a message's flags. Nil fields are left untouched.
type StatusUpdate struct {
	Read    *bool
	Replied *bool
}

// IsEmpty reports whether the update carries no field at all
func (u StatusUpdate) IsEmpty() bool {
	return u.Read == nil && u.Replied == nil
}

// Columns returns the column assignments for the fields present in the update
func (u StatusUpdate) Columns() map[string]any {
	cols := make(map[string]any, 2)
	if u.Read != nil {
		cols["read"] = *u.Read
	}
	if u.Replied != nil {
		cols["replied"] = *u.Replied
	}
	return cols
}

// Now returns the current UTC time at microsecond precision, the finest
// resolution every supported database stores losslessly.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
