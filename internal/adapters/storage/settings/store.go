package settings

import (
	"context"

	domain "repairshop/internal/domain/settings"
)

// Store persists the shop Settings singleton.
type Store interface {
	Get(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, value domain.Settings) error
	Count(ctx context.Context) (int64, error)
}
