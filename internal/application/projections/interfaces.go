package projections

import (
	"context"

	"repairshop/internal/adapters/storage/appointment"
	domainAppointment "repairshop/internal/domain/appointment"
	domainSettings "repairshop/internal/domain/settings"
)

// AppointmentStore interface for appointment queries.
type AppointmentStore interface {
	ListByPhone(ctx context.Context, phone string) ([]domainAppointment.Appointment, error)
	List(ctx context.Context, filter appointment.ListFilter) ([]domainAppointment.Appointment, error)
	Count(ctx context.Context, filter appointment.ListFilter) (int64, error)
	ListAll(ctx context.Context) ([]domainAppointment.Appointment, error)
}

// SettingsStore interface for settings queries.
type SettingsStore interface {
	Get(ctx context.Context) (domainSettings.Settings, error)
}
