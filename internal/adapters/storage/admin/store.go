package admin

import (
	"context"

	domain "repairshop/internal/domain/admin"
)

// Store persists Admin state.
type Store interface {
	GetByID(ctx context.Context, id uint) (domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (domain.Admin, error)
	Save(ctx context.Context, value *domain.Admin) error
	Count(ctx context.Context) (int64, error)
}
