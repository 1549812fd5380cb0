package appointment

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Appointment statuses. Pending and Cancelled drive the customer workflow;
// the rest are presets offered to the admin, who may also set free text.
const (
	StatusPending    = "Pending"
	StatusConfirmed  = "Confirmed"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// KnownStatuses lists the named statuses offered in the admin dropdown.
var KnownStatuses = []string{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}

// DateTimeLayout is the format submitted by the booking form (datetime-local input).
const DateTimeLayout = "2006-01-02T15:04"

// Display layouts.
const (
	dateDisplayLayout     = "02-01-2006"
	timeDisplayLayout     = "03:04 PM"
	dateTimeDisplayLayout = "02-01-2006 03:04 PM"
)

// Max length constants, matching the column sizes of the appointments table.
const (
	MaxCustomerNameLength = 100
	MaxPhoneNumberLength  = 20
	MaxAddressLength      = 200
	MaxDeviceLength       = 100
	MaxProblemLength      = 200
	MaxStatusLength       = 20
)

// Domain errors
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrNotCancellable    = errors.New("only pending appointments can be cancelled")
	ErrEmptyStatus       = errors.New("status cannot be empty")
	ErrStatusTooLong     = errors.New("status cannot exceed 20 characters")
	ErrEmptyToken        = errors.New("token cannot be empty")
	ErrMissingDate       = errors.New("appointment date is required")
)

// Appointment is one repair booking.
type Appointment struct {
	ID              uint
	CustomerName    string
	PhoneNumber     string
	Address         string
	Device          string
	Problem         string
	AppointmentDate time.Time
	Status          string
	Token           string
}

// Validate checks if the Appointment has valid data.
// PRE: Appointment struct is populated
// POST: Returns nil if valid, the first failing field's error otherwise
func (a *Appointment) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"customer name", a.CustomerName, MaxCustomerNameLength},
		{"phone number", a.PhoneNumber, MaxPhoneNumberLength},
		{"address", a.Address, MaxAddressLength},
		{"device", a.Device, MaxDeviceLength},
		{"problem", a.Problem, MaxProblemLength},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return errors.New(f.name + " cannot be empty")
		}
		if utf8.RuneCountInString(f.value) > f.max {
			return errors.New(f.name + " is too long")
		}
	}
	if a.AppointmentDate.IsZero() {
		return ErrMissingDate
	}
	if a.Token == "" {
		return ErrEmptyToken
	}
	if utf8.RuneCountInString(a.Status) > MaxStatusLength {
		return ErrStatusTooLong
	}
	return nil
}

// Cancel moves a Pending appointment to Cancelled.
// PRE: none
// POST: Status is Cancelled if it was Pending; otherwise unchanged and ErrNotCancellable returned
func (a *Appointment) Cancel() error {
	if a.Status != StatusPending {
		return ErrNotCancellable
	}
	a.Status = StatusCancelled
	return nil
}

// OverrideStatus sets any status without a transition check. This is the
// admin path; customers go through Cancel.
// PRE: status is non-empty
// POST: Status is replaced
func (a *Appointment) OverrideStatus(status string) error {
	if strings.TrimSpace(status) == "" {
		return ErrEmptyStatus
	}
	if utf8.RuneCountInString(status) > MaxStatusLength {
		return ErrStatusTooLong
	}
	a.Status = status
	return nil
}

// IsPending reports whether the customer can still cancel or reschedule.
// INVARIANT: Appointment fields are not mutated
func (a *Appointment) IsPending() bool {
	return a.Status == StatusPending
}

// FormattedDate renders the appointment day as DD-MM-YYYY.
func (a Appointment) FormattedDate() string {
	return a.AppointmentDate.Format(dateDisplayLayout)
}

// FormattedTime renders the appointment time on a 12-hour clock.
func (a Appointment) FormattedTime() string {
	return a.AppointmentDate.Format(timeDisplayLayout)
}

// FormattedDateTime renders date and 12-hour time together.
func (a Appointment) FormattedDateTime() string {
	return a.AppointmentDate.Format(dateTimeDisplayLayout)
}

// FormValue renders the date back into the booking form's input format.
func (a Appointment) FormValue() string {
	return a.AppointmentDate.Format(DateTimeLayout)
}

// ParseDateTime parses the booking form's date-time value.
// PRE: none
// POST: Returns the wall-clock time or ErrInvalidDateFormat
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// DayBounds returns the half-open range [start, end) of the calendar day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// NewToken issues a fresh random token for an appointment.
func NewToken() string {
	return uuid.New().String()
}
