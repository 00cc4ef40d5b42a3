package repository

import (
	"database/sql"
	"time"
)

// toMillis converts t to the unix-millisecond integer stored in SQLite.
func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// fromMillis converts a stored unix-millisecond value back to a UTC time.
func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// nullableMillis converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return toMillis(*t)
}

// parseNullableMillis converts a nullable stored timestamp into a *time.Time.
func parseNullableMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

// nullableString converts a *string to a value suitable for SQLite storage.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// parseNullableString converts a sql.NullString into a *string.
func parseNullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
