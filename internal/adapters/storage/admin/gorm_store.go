package admin

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"repairshop/internal/adapters/storage"
	domain "repairshop/internal/domain/admin"
)

// Record is the admins table row.
type Record struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:50;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:128;not null"`
	CreatedAt    time.Time
}

// TableName pins the table name.
func (Record) TableName() string { return "admins" }

func (r Record) toDomain() domain.Admin {
	return domain.Admin{ID: r.ID, Username: r.Username, PasswordHash: r.PasswordHash, CreatedAt: r.CreatedAt}
}

// GormStore implements Store using gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new AdminStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetByID retrieves an Admin by its ID.
// PRE: id > 0
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *GormStore) GetByID(ctx context.Context, id uint) (domain.Admin, error) {
	var rec Record
	if err := s.db.WithContext(ctx).Take(&rec, id).Error; err != nil {
		return domain.Admin{}, fmt.Errorf("admin %d: %w", id, storage.TranslateError(err))
	}
	return rec.toDomain(), nil
}

// GetByUsername retrieves an Admin by exact username.
// PRE: username is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *GormStore) GetByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var rec Record
	if err := s.db.WithContext(ctx).Where("username = ?", username).Take(&rec).Error; err != nil {
		return domain.Admin{}, fmt.Errorf("admin %q: %w", username, storage.TranslateError(err))
	}
	return rec.toDomain(), nil
}

// Save inserts or updates an Admin and writes the assigned ID back.
// PRE: value has been validated
// POST: Entity is persisted; value.ID is set
func (s *GormStore) Save(ctx context.Context, value *domain.Admin) error {
	rec := Record{
		ID:           value.ID,
		Username:     value.Username,
		PasswordHash: value.PasswordHash,
		CreatedAt:    value.CreatedAt.UTC(),
	}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("failed to save admin: %w", err)
	}
	value.ID = rec.ID
	value.CreatedAt = rec.CreatedAt
	return nil
}

// Count returns the number of admins.
func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
