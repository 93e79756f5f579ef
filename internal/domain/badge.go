package domain

import (
	"time"

	"github.com/google/uuid"
)

// Badge is awarded once, on the first full completion of a learning path.
// One row per (profile, badge name); never updated or revoked.
type Badge struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	BadgeName string    `gorm:"not null" json:"badgeName"`
	CreatedAt time.Time `json:"-"`
}

func (Badge) TableName() string {
	return "user_profile_badges"
}
