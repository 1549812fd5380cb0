package projections

import (
	"context"

	domainSettings "repairshop/internal/domain/settings"
)

// SettingsResult carries the current shop settings.
type SettingsResult struct {
	Settings domainSettings.Settings
}

// SettingsDeps holds dependencies for Settings.
type SettingsDeps struct {
	SettingsStore SettingsStore
}

// QuerySettings returns the stored settings, or the defaults when none were saved.
func QuerySettings(ctx context.Context, deps SettingsDeps) (SettingsResult, error) {
	s, err := deps.SettingsStore.Get(ctx)
	if err != nil {
		return SettingsResult{}, err
	}
	return SettingsResult{Settings: s}, nil
}
