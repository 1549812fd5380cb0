package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"repairshop/internal/adapters/http/flash"
	"repairshop/internal/application/orchestrators"
	"repairshop/internal/application/projections"
	"repairshop/internal/domain/appointment"
)

// Messages shown to customers.
const (
	msgInvalidDate      = "Invalid date format."
	msgLimitReached     = "Appointment limit reached for this day."
	msgNoAppointments   = "No appointments found."
	msgCancelled        = "Appointment cancelled successfully."
	msgNotCancellable   = "Only pending appointments can be cancelled."
	msgRescheduled      = "Appointment rescheduled."
	msgPhoneRequired    = "Phone number is required."
	msgInvalidSubmitted = "Invalid form submission."
)

type homeView struct {
	Intro template.HTML
}

type bookingView struct {
	Form BookingForm
}

type statusResultView struct {
	Error        string
	Appointments []appointment.Appointment
}

// handleHome serves GET /
func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render.render(w, r, http.StatusOK, "home.html", "Repair Shop", s.home)
}

// handleHealth serves GET /healthz
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.Ping != nil {
		if err := s.Ping(r.Context()); err != nil {
			slog.Error("db_event", "event", "health_check_failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleNotFound renders the 404 page for unmatched paths.
func (s *server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render.render(w, r, http.StatusNotFound, "not_found.html", "Not found", nil)
}

// handleBookForm serves GET /book_appointment, pre-filled from the query string.
func (s *server) handleBookForm(w http.ResponseWriter, r *http.Request) {
	s.render.render(w, r, http.StatusOK, "book_appointment.html", "Book an appointment", bookingView{Form: bookingFormFromQuery(r)})
}

// handleBookSubmit serves POST /book_appointment
func (s *server) handleBookSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, msgInvalidSubmitted, http.StatusBadRequest)
		return
	}
	form := bookingFormFrom(r)
	if msg := validateForm(form); msg != "" {
		s.renderStatusError(w, r, msg)
		return
	}

	input := orchestrators.BookAppointmentInput{
		CustomerName:    form.CustomerName,
		PhoneNumber:     form.PhoneNumber,
		Address:         form.Address,
		Device:          form.Device,
		Problem:         form.Problem,
		AppointmentDate: form.AppointmentDate,
		RescheduleID:    form.rescheduleID(),
	}
	deps := orchestrators.BookAppointmentDeps{
		AppointmentStore: s.Stores.AppointmentStore,
		NewToken:         s.NewToken,
		Notifier:         s.Notifier,
		NotifyEmail:      s.NotifyEmail,
	}
	result, err := orchestrators.ExecuteBookAppointment(r.Context(), input, deps)
	if err != nil {
		var verr *orchestrators.ValidationError
		switch {
		case errors.Is(err, appointment.ErrInvalidDateFormat):
			s.renderStatusError(w, r, msgInvalidDate)
		case errors.Is(err, orchestrators.ErrDailyLimitReached):
			s.renderStatusError(w, r, msgLimitReached)
		case errors.As(err, &verr):
			s.renderStatusError(w, r, sentence(verr.Err.Error()))
		default:
			internalError(w, err)
		}
		return
	}

	if result.Rescheduled {
		s.flashes.Add(w, r, flash.Success, msgRescheduled)
		http.Redirect(w, r, "/check_status", http.StatusSeeOther)
		return
	}
	s.render.render(w, r, http.StatusOK, "status_result.html", "Appointment booked",
		statusResultView{Appointments: []appointment.Appointment{result.Appointment}})
}

// handleCheckStatusForm serves GET /check_status
func (s *server) handleCheckStatusForm(w http.ResponseWriter, r *http.Request) {
	s.render.render(w, r, http.StatusOK, "check_status.html", "Check appointment status", nil)
}

// handleCheckStatus serves POST /check_status
func (s *server) handleCheckStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, msgInvalidSubmitted, http.StatusBadRequest)
		return
	}
	phone := r.PostFormValue("phone_number")
	if phone == "" {
		s.renderStatusError(w, r, msgPhoneRequired)
		return
	}

	result, err := projections.QueryCheckStatus(r.Context(),
		projections.CheckStatusQuery{PhoneNumber: phone},
		projections.CheckStatusDeps{AppointmentStore: s.Stores.AppointmentStore},
	)
	if err != nil {
		if errors.Is(err, projections.ErrNoAppointments) {
			s.renderStatusError(w, r, msgNoAppointments)
			return
		}
		internalError(w, err)
		return
	}
	s.render.render(w, r, http.StatusOK, "status_result.html", "Your appointments",
		statusResultView{Appointments: result.Appointments})
}

// handleCancel serves POST /appointment/cancel/{id}
func (s *server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	_, err := orchestrators.ExecuteCancelAppointment(r.Context(),
		orchestrators.CancelAppointmentInput{ID: id},
		orchestrators.CancelAppointmentDeps{AppointmentStore: s.Stores.AppointmentStore},
	)
	switch {
	case err == nil:
		s.flashes.Add(w, r, flash.Success, msgCancelled)
	case errors.Is(err, orchestrators.ErrAppointmentNotFound):
		s.handleNotFound(w, r)
		return
	case errors.Is(err, appointment.ErrNotCancellable):
		s.flashes.Add(w, r, flash.Warning, msgNotCancellable)
	default:
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/check_status", http.StatusSeeOther)
}

func (s *server) renderStatusError(w http.ResponseWriter, r *http.Request, msg string) {
	s.render.render(w, r, http.StatusOK, "status_result.html", "Appointment", statusResultView{Error: msg})
}

// pathID parses the {id} wildcard. Non-numeric and zero ids are not found.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// sentence capitalises msg and ends it with a full stop.
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	msg = strings.ToUpper(msg[:1]) + msg[1:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}
