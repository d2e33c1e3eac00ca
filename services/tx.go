package services

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// readSnapshot runs fn inside one transaction so every read sees the same data.
// LevelDefault keeps the driver's default isolation and a writable transaction.
func readSnapshot(ctx context.Context, db *gorm.DB, level sql.IsolationLevel, fn func(tx *gorm.DB) error) error {
	if level == sql.LevelDefault {
		return db.WithContext(ctx).Transaction(fn)
	}
	return db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: level, ReadOnly: true})
}

// ParseIsolation maps a config value such as "repeatable_read" to a level
func ParseIsolation(s string) sql.IsolationLevel {
	switch s {
	case "read_committed":
		return sql.LevelReadCommitted
	case "repeatable_read":
		return sql.LevelRepeatableRead
	case "serializable":
		return sql.LevelSerializable
	default:
		return sql.LevelDefault
	}
}
