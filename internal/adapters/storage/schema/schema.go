// Package schema lists the persisted record types and migrates them.
package schema

import (
	"gorm.io/gorm"

	"repairshop/internal/adapters/storage"
	"repairshop/internal/adapters/storage/admin"
	"repairshop/internal/adapters/storage/appointment"
	"repairshop/internal/adapters/storage/settings"
)

// Models returns one value of every record type, in migration order.
func Models() []any {
	return []any{&admin.Record{}, &appointment.Record{}, &settings.Record{}}
}

// Migrate creates or updates the admins, appointments and settings tables.
func Migrate(db *gorm.DB) error {
	return storage.Migrate(db, Models()...)
}
