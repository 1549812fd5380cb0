package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"repairshop/internal/adapters/storage"
)

// AppointmentStoreForDelete defines the store interface needed by DeleteAppointment.
type AppointmentStoreForDelete interface {
	Delete(ctx context.Context, id uint) error
}

// DeleteAppointmentInput carries input for DeleteAppointment.
type DeleteAppointmentInput struct {
	ID uint
}

// DeleteAppointmentDeps holds dependencies for DeleteAppointment.
type DeleteAppointmentDeps struct {
	AppointmentStore AppointmentStoreForDelete
}

// ExecuteDeleteAppointment permanently removes an appointment.
// PRE: caller is an authenticated admin
// POST: Row removed, or ErrAppointmentNotFound if it did not exist
func ExecuteDeleteAppointment(ctx context.Context, input DeleteAppointmentInput, deps DeleteAppointmentDeps) error {
	err := deps.AppointmentStore.Delete(ctx, input.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return err
	}
	slog.Info("admin_event", "event", "appointment_deleted", "appointment_id", input.ID)
	return nil
}
