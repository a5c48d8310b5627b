package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the local mirror of an externally-authenticated identity. Rows
// are created on first sight of an external id and never duplicated.
type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ExternalID       string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"external_id"`
	Name             string     `gorm:"type:varchar(255)" json:"name"`
	Email            string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	SubscriptionTier string     `gorm:"type:varchar(50);default:'free'" json:"subscription_tier"`
	StreakCount      int        `gorm:"default:0" json:"streak_count"`
	LastAuditAt      *time.Time `gorm:"type:timestamp" json:"last_audit_at,omitempty"`
	CreatedAt        time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
