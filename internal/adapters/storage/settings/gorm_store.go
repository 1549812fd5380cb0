package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "repairshop/internal/domain/settings"
)

// Record is the settings table row.
type Record struct {
	ID                    uint `gorm:"primaryKey;autoIncrement:false"`
	DailyAppointmentLimit int  `gorm:"not null"`
	UpdatedAt             time.Time
}

// TableName pins the table name.
func (Record) TableName() string { return "settings" }

// GormStore implements Store using gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new SettingsStore. db may be a transaction handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get reads the singleton row.
// PRE: none
// POST: Returns the stored settings, or domain.Default() when no row exists
func (s *GormStore) Get(ctx context.Context) (domain.Settings, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("id = ?", domain.SingletonID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Default(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return domain.Settings{ID: rec.ID, DailyAppointmentLimit: rec.DailyAppointmentLimit, UpdatedAt: rec.UpdatedAt}, nil
}

// Save upserts the singleton row. value.ID is ignored.
// PRE: none
// POST: Exactly one settings row exists, keyed by domain.SingletonID
func (s *GormStore) Save(ctx context.Context, value domain.Settings) error {
	rec := Record{
		ID:                    domain.SingletonID,
		DailyAppointmentLimit: value.DailyAppointmentLimit,
		UpdatedAt:             value.UpdatedAt.UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"daily_appointment_limit", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Count returns the number of settings rows.
func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count settings: %w", err)
	}
	return n, nil
}
