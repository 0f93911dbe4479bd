package insight

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ecotrack/ecotrack/models"
)

// ErrRecordNotFound signals that the store has no record for the user at all.
var ErrRecordNotFound = errors.New("insight: user record not found")

// UserRecord is the engine's read view of one user's stored state: the action
// mappings, the prior advice mapping keyed by checkpoint timestamp, and the
// most-recent-checkpoint pointer ("" when no cycle has completed yet).
type UserRecord struct {
	Actions           map[string]float64
	ActionTimestamps  map[string]time.Time
	PreviousAdvice    map[string]string
	LastCheckpointKey string
}

// Store is the engine's contract with the action store: a single read and a
// merge-write that appends an advice record and advances the pointer without
// touching any other field.
type Store interface {
	ReadUserRecord(ctx context.Context, userID uint) (*UserRecord, error)
	SaveCheckpoint(ctx context.Context, userID uint, key, adviceBlob string) error
}

// GormStore implements Store over the relational schema (actions and
// checkpoints tables plus the pointer column on users).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm handle in the Store contract.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ReadUserRecord loads the full stored state for one user.
func (s *GormStore) ReadUserRecord(ctx context.Context, userID uint) (*UserRecord, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	rec := &UserRecord{
		Actions:           map[string]float64{},
		ActionTimestamps:  map[string]time.Time{},
		PreviousAdvice:    map[string]string{},
		LastCheckpointKey: user.LastCheckpointKey,
	}

	var actions []models.Action
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&actions).Error; err != nil {
		return nil, err
	}
	for _, a := range actions {
		rec.Actions[a.Name] = a.ImpactKg
		rec.ActionTimestamps[a.Name] = a.RecordedAt
	}

	var checkpoints []models.Checkpoint
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&checkpoints).Error; err != nil {
		return nil, err
	}
	for _, c := range checkpoints {
		rec.PreviousAdvice[c.Ts] = c.Advice
	}

	return rec, nil
}

// SaveCheckpoint appends a checkpoint row and advances the user's pointer in
// one transaction. It is a shallow merge: no other user field is replaced.
func (s *GormStore) SaveCheckpoint(ctx context.Context, userID uint, key, adviceBlob string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.Checkpoint{UserID: userID, Ts: key, Advice: adviceBlob}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("last_checkpoint_key", key).Error
	})
}
