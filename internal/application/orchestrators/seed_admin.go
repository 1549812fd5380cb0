package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"repairshop/internal/domain/admin"
)

// AdminStoreForSeed defines the store interface needed by SeedAdmin.
type AdminStoreForSeed interface {
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, value *admin.Admin) error
}

// SeedAdminInput carries the credentials of the first admin.
type SeedAdminInput struct {
	Username string
	Password string
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AdminStore AdminStoreForSeed
}

// ExecuteSeedAdmin creates the first admin when none exists. Admins have no
// registration route; this is the only way one is created.
// PRE: none
// POST: Returns true if an admin was created; existing admins are never touched
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) (bool, error) {
	n, err := deps.AdminStore.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if input.Password == "" {
		slog.Warn("auth_event", "event", "seed_skipped", "reason", "no_password", "username", input.Username)
		return false, nil
	}

	a := admin.Admin{Username: input.Username}
	if err := a.Validate(); err != nil {
		return false, fmt.Errorf("invalid seed admin: %w", err)
	}
	if err := a.SetPassword(input.Password); err != nil {
		return false, fmt.Errorf("invalid seed admin: %w", err)
	}
	if err := deps.AdminStore.Save(ctx, &a); err != nil {
		return false, err
	}
	slog.Info("auth_event", "event", "admin_seeded", "username", a.Username)
	return true, nil
}
