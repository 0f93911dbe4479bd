package models

import "time"

// Checkpoint records one completed advice-generation cycle. Ts is the RFC3339
// UTC timestamp used as the lookup key into the advice mapping (lexicographic
// order therefore matches chronological order). Advice holds the serialized
// AdviceRecord blob. Rows are append-only: cycles never delete old checkpoints,
// they only add new ones and advance users.last_checkpoint_key.
type Checkpoint struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;index:idx_checkpoints_user_ts,unique;not null" json:"user_id"`
	Ts        string    `gorm:"size:40;index:idx_checkpoints_user_ts,unique;not null" json:"ts"`
	Advice    string    `gorm:"type:text;not null" json:"advice"`
	CreatedAt time.Time `json:"created_at"`
}
