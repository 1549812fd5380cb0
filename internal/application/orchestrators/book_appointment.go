package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"repairshop/internal/adapters/email"
	"repairshop/internal/adapters/storage"
	appointmentstore "repairshop/internal/adapters/storage/appointment"
	"repairshop/internal/domain/appointment"
)

// AppointmentStoreForBooking defines the store interface needed by BookAppointment.
type AppointmentStoreForBooking interface {
	Book(ctx context.Context, day time.Time, fn func(tx appointmentstore.BookingTx) error) error
}

// BookAppointmentInput carries the submitted booking form.
type BookAppointmentInput struct {
	CustomerName    string
	PhoneNumber     string
	Address         string
	Device          string
	Problem         string
	AppointmentDate string // YYYY-MM-DDTHH:MM
	RescheduleID    uint   // 0 for a new booking
}

// BookAppointmentResult carries the written appointment.
type BookAppointmentResult struct {
	Appointment appointment.Appointment
	Rescheduled bool
}

// BookAppointmentDeps holds dependencies for BookAppointment.
type BookAppointmentDeps struct {
	AppointmentStore AppointmentStoreForBooking
	NewToken         func() string
	Notifier         email.Sender // optional
	NotifyEmail      string       // shop inbox; empty disables notification
}

// ExecuteBookAppointment creates a booking, or overwrites an existing one when
// RescheduleID names a row that exists. The day's count, the limit read and the
// write happen in one store transaction.
// PRE: input fields come from an untrusted form
// POST: One row inserted or updated, or none on error
// INVARIANT: a day never holds more non-cancelled appointments than the limit read in the same transaction
func ExecuteBookAppointment(ctx context.Context, input BookAppointmentInput, deps BookAppointmentDeps) (BookAppointmentResult, error) {
	when, err := appointment.ParseDateTime(input.AppointmentDate)
	if err != nil {
		return BookAppointmentResult{}, err
	}

	a := appointment.Appointment{
		CustomerName:    input.CustomerName,
		PhoneNumber:     input.PhoneNumber,
		Address:         input.Address,
		Device:          input.Device,
		Problem:         input.Problem,
		AppointmentDate: when,
		Status:          appointment.StatusPending,
		Token:           deps.NewToken(),
	}
	if err := a.Validate(); err != nil {
		return BookAppointmentResult{}, &ValidationError{Err: err}
	}

	var result BookAppointmentResult
	err = deps.AppointmentStore.Book(ctx, when, func(tx appointmentstore.BookingTx) error {
		if input.RescheduleID != 0 {
			existing, err := tx.GetByID(ctx, input.RescheduleID)
			switch {
			case err == nil:
				a.ID = existing.ID
				a.Status = existing.Status
				result.Rescheduled = true
			case errors.Is(err, storage.ErrNotFound):
				slog.Info("booking_event", "event", "reschedule_target_missing", "reschedule_id", input.RescheduleID)
			default:
				return err
			}
		}

		count, err := tx.CountOnDay(ctx, when, a.ID)
		if err != nil {
			return err
		}
		cfg, err := tx.Settings(ctx)
		if err != nil {
			return err
		}
		if !cfg.Allows(count) {
			return ErrDailyLimitReached
		}
		return tx.Save(ctx, &a)
	})
	if err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			slog.Info("booking_event", "event", "limit_reached", "day", when.Format("2006-01-02"))
		}
		return BookAppointmentResult{}, err
	}

	result.Appointment = a
	event := "appointment_created"
	if result.Rescheduled {
		event = "appointment_rescheduled"
	}
	slog.Info("booking_event", "event", event, "appointment_id", a.ID, "day", when.Format("2006-01-02"))

	notifyNewBooking(ctx, deps, result)
	return result, nil
}

// notifyNewBooking emails the shop inbox. Failures are logged and never fail the booking.
func notifyNewBooking(ctx context.Context, deps BookAppointmentDeps, result BookAppointmentResult) {
	if deps.Notifier == nil || deps.NotifyEmail == "" {
		return
	}
	a := result.Appointment
	verb := "New booking"
	if result.Rescheduled {
		verb = "Rescheduled booking"
	}
	req := email.SendRequest{
		To:      []string{deps.NotifyEmail},
		Subject: fmt.Sprintf("%s: %s on %s", verb, a.Device, a.FormattedDateTime()),
		HTML:    renderBookingEmail(verb, a),
	}
	if _, err := deps.Notifier.Send(ctx, req); err != nil {
		slog.Warn("booking_event", "event", "notify_failed", "appointment_id", a.ID, "error", err)
	}
}
