package appointment

import (
	"context"
	"time"

	domain "repairshop/internal/domain/appointment"
	settingsdomain "repairshop/internal/domain/settings"
)

// Store persists Appointment state.
type Store interface {
	GetByID(ctx context.Context, id uint) (domain.Appointment, error)
	Save(ctx context.Context, value *domain.Appointment) error
	Delete(ctx context.Context, id uint) error
	ListByPhone(ctx context.Context, phone string) ([]domain.Appointment, error)
	CountOnDay(ctx context.Context, day time.Time, excludeID uint) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Appointment, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	ListAll(ctx context.Context) ([]domain.Appointment, error)
	Book(ctx context.Context, day time.Time, fn func(tx BookingTx) error) error
}

// BookingTx is the view of the store available inside Book. All calls
// share one transaction that no other booking for the same day can interleave with.
type BookingTx interface {
	GetByID(ctx context.Context, id uint) (domain.Appointment, error)
	CountOnDay(ctx context.Context, day time.Time, excludeID uint) (int64, error)
	Settings(ctx context.Context) (settingsdomain.Settings, error)
	Save(ctx context.Context, value *domain.Appointment) error
}

// ListFilter carries filtering parameters for List and Count.
// Zero values mean "no constraint".
type ListFilter struct {
	ExcludeStatus string
	Status        string
	From          time.Time // inclusive
	To            time.Time // exclusive
	Ascending     bool
	Limit         int
	Offset        int
}
