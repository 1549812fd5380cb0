package appointment

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"repairshop/internal/adapters/storage"
	settingsstore "repairshop/internal/adapters/storage/settings"
	domain "repairshop/internal/domain/appointment"
	settingsdomain "repairshop/internal/domain/settings"
)

// Record is the appointments table row.
type Record struct {
	ID              uint      `gorm:"primaryKey"`
	CustomerName    string    `gorm:"size:100;not null"`
	PhoneNumber     string    `gorm:"size:20;not null;index"`
	Address         string    `gorm:"size:200;not null"`
	Device          string    `gorm:"size:100;not null"`
	Problem         string    `gorm:"size:200;not null"`
	AppointmentDate time.Time `gorm:"not null;index"`
	Status          string    `gorm:"size:20;not null"`
	TokenNumber     string    `gorm:"column:token_number;size:100;not null;uniqueIndex"`
}

// TableName pins the table name.
func (Record) TableName() string { return "appointments" }

func (r Record) toDomain() domain.Appointment {
	return domain.Appointment{
		ID:              r.ID,
		CustomerName:    r.CustomerName,
		PhoneNumber:     r.PhoneNumber,
		Address:         r.Address,
		Device:          r.Device,
		Problem:         r.Problem,
		AppointmentDate: r.AppointmentDate.UTC(),
		Status:          r.Status,
		Token:           r.TokenNumber,
	}
}

func fromDomain(a domain.Appointment) Record {
	return Record{
		ID:              a.ID,
		CustomerName:    a.CustomerName,
		PhoneNumber:     a.PhoneNumber,
		Address:         a.Address,
		Device:          a.Device,
		Problem:         a.Problem,
		AppointmentDate: a.AppointmentDate.UTC(),
		Status:          a.Status,
		TokenNumber:     a.Token,
	}
}

func toDomainList(recs []Record) []domain.Appointment {
	list := make([]domain.Appointment, 0, len(recs))
	for _, r := range recs {
		list = append(list, r.toDomain())
	}
	return list
}

// GormStore implements Store using gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new AppointmentStore. db may be a transaction handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetByID retrieves an Appointment by its ID.
// PRE: id > 0
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *GormStore) GetByID(ctx context.Context, id uint) (domain.Appointment, error) {
	var rec Record
	if err := s.db.WithContext(ctx).Take(&rec, id).Error; err != nil {
		return domain.Appointment{}, fmt.Errorf("appointment %d: %w", id, storage.TranslateError(err))
	}
	return rec.toDomain(), nil
}

// Save inserts a new appointment (ID 0) or overwrites every column of an existing one.
// PRE: value has been validated
// POST: Entity is persisted; value.ID is set
func (s *GormStore) Save(ctx context.Context, value *domain.Appointment) error {
	rec := fromDomain(*value)
	db := s.db.WithContext(ctx)
	var err error
	if rec.ID == 0 {
		err = db.Create(&rec).Error
	} else {
		err = db.Save(&rec).Error
	}
	if err != nil {
		return fmt.Errorf("failed to save appointment: %w", err)
	}
	value.ID = rec.ID
	return nil
}

// Delete permanently removes an appointment.
// PRE: id > 0
// POST: Row is gone, or an error wrapping storage.ErrNotFound if it never existed
func (s *GormStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Record{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete appointment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("appointment %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ListByPhone returns every appointment with exactly this phone number, oldest first.
func (s *GormStore) ListByPhone(ctx context.Context, phone string) ([]domain.Appointment, error) {
	var recs []Record
	if err := s.db.WithContext(ctx).Where("phone_number = ?", phone).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments by phone: %w", err)
	}
	return toDomainList(recs), nil
}

// CountOnDay counts non-cancelled appointments on the calendar day containing day,
// ignoring excludeID (0 excludes nothing).
func (s *GormStore) CountOnDay(ctx context.Context, day time.Time, excludeID uint) (int64, error) {
	start, end := domain.DayBounds(day.UTC())
	q := s.db.WithContext(ctx).Model(&Record{}).
		Where("appointment_date >= ? AND appointment_date < ?", start, end).
		Where("status <> ?", domain.StatusCancelled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count appointments on day: %w", err)
	}
	return n, nil
}

func (s *GormStore) filtered(ctx context.Context, f ListFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&Record{})
	if f.ExcludeStatus != "" {
		q = q.Where("status <> ?", f.ExcludeStatus)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("appointment_date >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("appointment_date < ?", f.To.UTC())
	}
	return q
}

// List returns one page of appointments matching the filter, ordered by id.
// PRE: filter.Limit >= 0, filter.Offset >= 0
// POST: Returns at most filter.Limit rows (all rows if Limit is 0)
func (s *GormStore) List(ctx context.Context, filter ListFilter) ([]domain.Appointment, error) {
	q := s.filtered(ctx, filter)
	if filter.Ascending {
		q = q.Order("id ASC")
	} else {
		q = q.Order("id DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	var recs []Record
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return toDomainList(recs), nil
}

// Count returns the number of appointments matching the filter. Paging fields are ignored.
func (s *GormStore) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var n int64
	if err := s.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return n, nil
}

// ListAll returns every appointment, cancelled ones included, ordered by id.
func (s *GormStore) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	var recs []Record
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return toDomainList(recs), nil
}

// Book runs fn inside a transaction serialized against other bookings for the same day.
// PRE: fn only uses the BookingTx it is given
// POST: fn's writes are committed iff fn returns nil
func (s *GormStore) Book(ctx context.Context, day time.Time, fn func(tx BookingTx) error) error {
	return storage.WithDayLock(ctx, s.db, Record{}.TableName(), day, func(tx *gorm.DB) error {
		return fn(bookingTx{GormStore: NewGormStore(tx), settings: settingsstore.NewGormStore(tx)})
	})
}

type bookingTx struct {
	*GormStore
	settings *settingsstore.GormStore
}

func (b bookingTx) Settings(ctx context.Context) (settingsdomain.Settings, error) {
	return b.settings.Get(ctx)
}
