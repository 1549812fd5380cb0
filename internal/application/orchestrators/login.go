package orchestrators

import (
	"context"
	"log/slog"

	"repairshop/internal/domain/admin"
)

// AdminStoreForLogin defines the store interface needed by Login.
type AdminStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (admin.Admin, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AdminID  uint
	Username string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AdminStore AdminStoreForLogin
}

// ExecuteLogin validates credentials and returns admin info for session creation.
// Unknown usernames and wrong passwords give the same error.
// PRE: none
// POST: Returns admin info on success, ErrInvalidCredentials otherwise
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	a, err := deps.AdminStore.GetByUsername(ctx, input.Username)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := a.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "username", a.Username)
	return LoginResult{AdminID: a.ID, Username: a.Username}, nil
}
