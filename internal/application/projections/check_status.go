package projections

import (
	"context"
	"errors"

	domainAppointment "repairshop/internal/domain/appointment"
)

// ErrNoAppointments is returned when a phone number has no bookings.
var ErrNoAppointments = errors.New("no appointments found")

// CheckStatusQuery carries query parameters.
type CheckStatusQuery struct {
	PhoneNumber string
}

// CheckStatusResult carries the query result.
type CheckStatusResult struct {
	Appointments []domainAppointment.Appointment
}

// CheckStatusDeps holds dependencies for CheckStatus.
type CheckStatusDeps struct {
	AppointmentStore AppointmentStore
}

// QueryCheckStatus returns every appointment booked under a phone number.
// PRE: none
// POST: Exact, unnormalized match; ErrNoAppointments when nothing matches
func QueryCheckStatus(ctx context.Context, query CheckStatusQuery, deps CheckStatusDeps) (CheckStatusResult, error) {
	if query.PhoneNumber == "" {
		return CheckStatusResult{}, ErrNoAppointments
	}
	list, err := deps.AppointmentStore.ListByPhone(ctx, query.PhoneNumber)
	if err != nil {
		return CheckStatusResult{}, err
	}
	if len(list) == 0 {
		return CheckStatusResult{}, ErrNoAppointments
	}
	return CheckStatusResult{Appointments: list}, nil
}
