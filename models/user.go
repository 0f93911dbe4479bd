package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a tracker account. Passwords are stored as bcrypt hashes only.
// LastCheckpointKey holds the RFC3339 timestamp of the most recent completed
// advice-generation cycle and always equals the key of the latest Checkpoint
// row once a cycle persists successfully.
type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Username          string         `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email             string         `gorm:"size:255" json:"email"`
	PasswordHash      string         `gorm:"size:255" json:"-"`
	Provider          string         `gorm:"size:32" json:"provider"`
	ProviderID        string         `gorm:"size:255" json:"provider_id"`
	RegisterIP        string         `gorm:"size:45" json:"register_ip"`
	AvatarURL         string         `gorm:"size:512" json:"avatar_url"`
	LastCheckpointKey string         `gorm:"size:40" json:"last_checkpoint_key"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Actions           []Action       `json:"-"`
	Checkpoints       []Checkpoint   `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
