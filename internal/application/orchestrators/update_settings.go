package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"repairshop/internal/domain/settings"
)

// SettingsStoreForUpdate defines the store interface needed by UpdateSettings.
type SettingsStoreForUpdate interface {
	Save(ctx context.Context, value settings.Settings) error
}

// UpdateSettingsInput carries the new daily limit.
type UpdateSettingsInput struct {
	DailyAppointmentLimit int
}

// UpdateSettingsDeps holds dependencies for UpdateSettings.
type UpdateSettingsDeps struct {
	SettingsStore SettingsStoreForUpdate
	Now           func() time.Time
}

// ExecuteUpdateSettings stores the daily limit on the settings singleton.
// Zero and negative limits are kept as given; they reject every booking.
// PRE: caller is an authenticated admin
// POST: Exactly one settings row holds the new limit
func ExecuteUpdateSettings(ctx context.Context, input UpdateSettingsInput, deps UpdateSettingsDeps) (settings.Settings, error) {
	s := settings.Settings{
		ID:                    settings.SingletonID,
		DailyAppointmentLimit: input.DailyAppointmentLimit,
		UpdatedAt:             deps.Now(),
	}
	if err := deps.SettingsStore.Save(ctx, s); err != nil {
		return settings.Settings{}, err
	}
	if s.BlocksAllBookings() {
		slog.Warn("admin_event", "event", "settings_updated", "daily_limit", s.DailyAppointmentLimit, "blocks_all_bookings", true)
	} else {
		slog.Info("admin_event", "event", "settings_updated", "daily_limit", s.DailyAppointmentLimit)
	}
	return s, nil
}
