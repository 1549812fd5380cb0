package orchestrators

import "errors"

// Orchestrator errors shared by the booking and admin workflows.
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDailyLimitReached   = errors.New("appointment limit reached for this day")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// ValidationError reports submitted data the domain rejected. Nothing was written.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid booking: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
