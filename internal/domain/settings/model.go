package settings

import "time"

// DefaultDailyLimit applies when no settings record has been saved yet.
const DefaultDailyLimit = 10

// SingletonID is the well-known key of the one settings record.
const SingletonID uint = 1

// Settings holds the shop-wide configuration.
// DailyAppointmentLimit is not range-checked: zero or negative values are
// stored as given and reject every booking.
type Settings struct {
	ID                    uint
	DailyAppointmentLimit int
	UpdatedAt             time.Time
}

// Default returns the settings used when nothing has been persisted.
func Default() Settings {
	return Settings{ID: SingletonID, DailyAppointmentLimit: DefaultDailyLimit}
}

// BlocksAllBookings reports whether the limit rejects every booking.
// INVARIANT: Settings fields are not mutated
func (s Settings) BlocksAllBookings() bool {
	return s.DailyAppointmentLimit <= 0
}

// Allows reports whether another booking fits on a day that already has count bookings.
func (s Settings) Allows(count int64) bool {
	return count < int64(s.DailyAppointmentLimit)
}
