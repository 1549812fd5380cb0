package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"repairshop/internal/adapters/storage"
	"repairshop/internal/domain/appointment"
)

// AppointmentStoreForUpdate defines the store interface needed by cancel and status updates.
type AppointmentStoreForUpdate interface {
	GetByID(ctx context.Context, id uint) (appointment.Appointment, error)
	Save(ctx context.Context, value *appointment.Appointment) error
}

// CancelAppointmentInput carries input for the customer cancel path.
type CancelAppointmentInput struct {
	ID uint
}

// CancelAppointmentDeps holds dependencies for CancelAppointment.
type CancelAppointmentDeps struct {
	AppointmentStore AppointmentStoreForUpdate
}

// ExecuteCancelAppointment cancels a Pending appointment.
// PRE: none
// POST: Pending -> Cancelled and saved; any other status is left untouched and
// appointment.ErrNotCancellable is returned
func ExecuteCancelAppointment(ctx context.Context, input CancelAppointmentInput, deps CancelAppointmentDeps) (appointment.Appointment, error) {
	a, err := loadAppointment(ctx, deps.AppointmentStore, input.ID)
	if err != nil {
		return appointment.Appointment{}, err
	}
	if err := a.Cancel(); err != nil {
		slog.Info("booking_event", "event", "cancel_refused", "appointment_id", a.ID, "status", a.Status)
		return a, err
	}
	if err := deps.AppointmentStore.Save(ctx, &a); err != nil {
		return appointment.Appointment{}, err
	}
	slog.Info("booking_event", "event", "appointment_cancelled", "appointment_id", a.ID)
	return a, nil
}

type appointmentGetter interface {
	GetByID(ctx context.Context, id uint) (appointment.Appointment, error)
}

// loadAppointment maps the store's not-found error onto ErrAppointmentNotFound.
func loadAppointment(ctx context.Context, store appointmentGetter, id uint) (appointment.Appointment, error) {
	a, err := store.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return appointment.Appointment{}, ErrAppointmentNotFound
	}
	return a, err
}
