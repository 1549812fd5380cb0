package orchestrators

import (
	"context"
	"log/slog"

	"repairshop/internal/domain/appointment"
)

// UpdateStatusInput carries input for the admin status override.
type UpdateStatusInput struct {
	ID     uint
	Status string
}

// UpdateStatusDeps holds dependencies for UpdateStatus.
type UpdateStatusDeps struct {
	AppointmentStore AppointmentStoreForUpdate
}

// ExecuteUpdateStatus sets any status on an appointment. Unlike the customer
// cancel path there is no transition check.
// PRE: caller is an authenticated admin
// POST: Status replaced and saved, or ErrAppointmentNotFound
func ExecuteUpdateStatus(ctx context.Context, input UpdateStatusInput, deps UpdateStatusDeps) (appointment.Appointment, error) {
	a, err := loadAppointment(ctx, deps.AppointmentStore, input.ID)
	if err != nil {
		return appointment.Appointment{}, err
	}
	previous := a.Status
	if err := a.OverrideStatus(input.Status); err != nil {
		return appointment.Appointment{}, err
	}
	if err := deps.AppointmentStore.Save(ctx, &a); err != nil {
		return appointment.Appointment{}, err
	}
	slog.Info("admin_event", "event", "status_updated", "appointment_id", a.ID, "from", previous, "to", a.Status)
	return a, nil
}
