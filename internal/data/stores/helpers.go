// Package stores implements the persistence interfaces over SQLite.
package stores

import (
	"database/sql"
	"errors"
	"time"
)

// IsNotFoundError reports whether err is the driver's no-rows error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// toNullInt64 converts an optional timestamp to a nullable unix-nano value.
func toNullInt64(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

// fromNullInt64 converts a nullable unix-nano value to a timestamp pointer.
func fromNullInt64(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64)
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
