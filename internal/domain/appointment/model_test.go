package appointment_test

import (
	"strings"
	"testing"
	"time"

	"repairshop/internal/domain/appointment"
)

func validAppointment() appointment.Appointment {
	return appointment.Appointment{
		CustomerName:    "Ana Ruiz",
		PhoneNumber:     "555-0100",
		Address:         "12 Harbour St",
		Device:          "Bluetooth speaker",
		Problem:         "No sound from left channel",
		AppointmentDate: time.Date(2026, 10, 20, 14, 30, 0, 0, time.UTC),
		Status:          appointment.StatusPending,
		Token:           appointment.NewToken(),
	}
}

// TestAppointment_Validate tests validation of Appointment.
func TestAppointment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *appointment.Appointment)
		wantErr bool
	}{
		{name: "valid", mutate: func(a *appointment.Appointment) {}, wantErr: false},
		{name: "empty name", mutate: func(a *appointment.Appointment) { a.CustomerName = "" }, wantErr: true},
		{name: "blank phone", mutate: func(a *appointment.Appointment) { a.PhoneNumber = "  " }, wantErr: true},
		{name: "empty address", mutate: func(a *appointment.Appointment) { a.Address = "" }, wantErr: true},
		{name: "empty device", mutate: func(a *appointment.Appointment) { a.Device = "" }, wantErr: true},
		{name: "empty problem", mutate: func(a *appointment.Appointment) { a.Problem = "" }, wantErr: true},
		{name: "phone too long", mutate: func(a *appointment.Appointment) { a.PhoneNumber = strings.Repeat("5", 21) }, wantErr: true},
		{name: "accented name at limit", mutate: func(a *appointment.Appointment) { a.CustomerName = strings.Repeat("é", 100) }, wantErr: false},
		{name: "accented name over limit", mutate: func(a *appointment.Appointment) { a.CustomerName = strings.Repeat("é", 101) }, wantErr: true},
		{name: "cjk problem at limit", mutate: func(a *appointment.Appointment) { a.Problem = strings.Repeat("画", 200) }, wantErr: false},
		{name: "zero date", mutate: func(a *appointment.Appointment) { a.AppointmentDate = time.Time{} }, wantErr: true},
		{name: "missing token", mutate: func(a *appointment.Appointment) { a.Token = "" }, wantErr: true},
		{name: "free text status", mutate: func(a *appointment.Appointment) { a.Status = "Waiting on parts" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAppointment()
			tt.mutate(&a)
			err := a.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAppointment_Cancel verifies only Pending appointments can be cancelled.
func TestAppointment_Cancel(t *testing.T) {
	for _, status := range appointment.KnownStatuses {
		t.Run(status, func(t *testing.T) {
			a := validAppointment()
			a.Status = status
			err := a.Cancel()
			if status == appointment.StatusPending {
				if err != nil {
					t.Fatalf("expected cancel to succeed, got %v", err)
				}
				if a.Status != appointment.StatusCancelled {
					t.Errorf("expected Cancelled, got %s", a.Status)
				}
				return
			}
			if err != appointment.ErrNotCancellable {
				t.Fatalf("expected ErrNotCancellable, got %v", err)
			}
			if a.Status != status {
				t.Errorf("status changed from %s to %s", status, a.Status)
			}
		})
	}
}

// TestAppointment_OverrideStatus verifies the admin path skips transition checks.
func TestAppointment_OverrideStatus(t *testing.T) {
	a := validAppointment()
	a.Status = appointment.StatusCancelled
	if err := a.OverrideStatus(appointment.StatusPending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != appointment.StatusPending {
		t.Errorf("expected Pending, got %s", a.Status)
	}
	if err := a.OverrideStatus("Waiting on parts"); err != nil {
		t.Fatalf("free text status rejected: %v", err)
	}
	if err := a.OverrideStatus(""); err != appointment.ErrEmptyStatus {
		t.Errorf("expected ErrEmptyStatus, got %v", err)
	}
	if err := a.OverrideStatus(strings.Repeat("ñ", appointment.MaxStatusLength)); err != nil {
		t.Errorf("status of %d runes rejected: %v", appointment.MaxStatusLength, err)
	}
	if err := a.OverrideStatus(strings.Repeat("ñ", appointment.MaxStatusLength+1)); err != appointment.ErrStatusTooLong {
		t.Errorf("expected ErrStatusTooLong, got %v", err)
	}
}

// TestParseDateTime covers the datetime-local format and rejects anything else.
func TestParseDateTime(t *testing.T) {
	got, err := appointment.ParseDateTime("2026-10-20T09:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 10, 20, 9, 5, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, bad := range []string{"", "2026-10-20", "20-10-2026 09:05", "2026-13-01T10:00", "tomorrow"} {
		if _, err := appointment.ParseDateTime(bad); err != appointment.ErrInvalidDateFormat {
			t.Errorf("ParseDateTime(%q) error = %v, want ErrInvalidDateFormat", bad, err)
		}
	}
}

// TestAppointment_Formatting checks the dashboard and export display formats.
func TestAppointment_Formatting(t *testing.T) {
	a := validAppointment()
	a.AppointmentDate = time.Date(2026, 3, 7, 15, 4, 0, 0, time.UTC)

	if got := a.FormattedDate(); got != "07-03-2026" {
		t.Errorf("FormattedDate = %s", got)
	}
	if got := a.FormattedTime(); got != "03:04 PM" {
		t.Errorf("FormattedTime = %s", got)
	}
	if got := a.FormattedDateTime(); got != "07-03-2026 03:04 PM" {
		t.Errorf("FormattedDateTime = %s", got)
	}
	if got := a.FormValue(); got != "2026-03-07T15:04" {
		t.Errorf("FormValue = %s", got)
	}
}

// TestDayBounds verifies the half-open day range.
func TestDayBounds(t *testing.T) {
	start, end := appointment.DayBounds(time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC))
	if !start.Equal(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

// TestNewToken_Unique verifies tokens are canonical UUID strings and do not repeat.
func TestNewToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		tok := appointment.NewToken()
		if len(tok) != 36 {
			t.Fatalf("unexpected token format %q", tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %s", tok)
		}
		seen[tok] = true
	}
}
