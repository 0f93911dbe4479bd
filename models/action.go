package models

import "time"

// Action stores one logged sustainability activity. The (user_id, name) pair
// is unique: re-logging the same name overwrites impact and timestamp
// (last-write-wins, no history kept for a repeated name). ImpactKg is signed
// kg CO2e; negative values are avoided or offset emissions.
type Action struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;index:idx_actions_user_name,unique;not null" json:"user_id"`
	Name       string    `gorm:"size:255;index:idx_actions_user_name,unique;not null" json:"name"`
	ImpactKg   float64   `gorm:"not null" json:"impact_kg"`
	RecordedAt time.Time `gorm:"index;not null" json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
