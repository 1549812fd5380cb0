package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// lockWaitSeconds bounds how long a MySQL booking waits for another booking on the same day.
const lockWaitSeconds = 10

// DayLockKey identifies a calendar day for advisory locking.
func DayLockKey(day time.Time) int64 {
	return day.UTC().Unix() / 86400
}

// WithDayLock runs fn in a transaction that is serialized against every
// other WithDayLock call for the same day.
//   - postgres: transaction-scoped advisory lock keyed by the day
//   - mysql: named lock held on a pinned connection until after commit
//   - sqlite: a no-op write on table takes the database write lock up front
//
// PRE: table is a trusted table name with an id column
// POST: fn's writes are committed only if fn returns nil
func WithDayLock(ctx context.Context, db *gorm.DB, table string, day time.Time, fn func(tx *gorm.DB) error) error {
	key := DayLockKey(day)
	db = db.WithContext(ctx)

	switch db.Dialector.Name() {
	case DialectPostgres:
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", key).Error; err != nil {
				return fmt.Errorf("failed to lock day: %w", err)
			}
			return fn(tx)
		})
	case DialectMySQL:
		name := fmt.Sprintf("%s_day_%d", table, key)
		return db.Connection(func(conn *gorm.DB) error {
			var got int
			if err := conn.Raw("SELECT GET_LOCK(?, ?)", name, lockWaitSeconds).Scan(&got).Error; err != nil {
				return fmt.Errorf("failed to lock day: %w", err)
			}
			if got != 1 {
				return fmt.Errorf("timed out waiting for day lock %s", name)
			}
			defer conn.Exec("SELECT RELEASE_LOCK(?)", name)
			return conn.Transaction(fn)
		})
	default:
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(fmt.Sprintf("UPDATE %s SET id = id WHERE 1 = 0", table)).Error; err != nil {
				return fmt.Errorf("failed to lock day: %w", err)
			}
			return fn(tx)
		})
	}
}
