package sqlite

import (
	"context"
	"database/sql"
	"time"

	"zenflow/internal/errors"
)

// Scanner is satisfied by both *sql.Row and *sql.Rows
type Scanner interface {
	Scan(dest ...any) error
}

// HandleStorageError converts driver errors to structured app errors
func HandleStorageError(operation string, err error) error {
	return errors.NewStorageError(operation, err)
}

// FormatTimeForDB formats t as RFC3339 for consistent storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimeFromDB parses an RFC3339 column value
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// QueryValue runs a single-row query and scans it with scanFunc. A missing row reports found=false.
func QueryValue[T any](ctx context.Context, db *sql.DB, query string, scanFunc func(Scanner) (T, error), args ...any) (T, bool, error) {
	var zero T
	row := db.QueryRowContext(ctx, query, args...)
	result, err := scanFunc(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return zero, false, nil
		}
		return zero, false, HandleStorageError("scan record", err)
	}
	return result, true, nil
}

// QueryColumn runs a query returning one string column per row
func QueryColumn(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, HandleStorageError("query", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, HandleStorageError("scan column", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, HandleStorageError("iterate rows", err)
	}
	return out, nil
}

// Execute runs a statement and wraps any failure
func Execute(ctx context.Context, db *sql.DB, operation, query string, args ...any) error {
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return HandleStorageError(operation, err)
	}
	return nil
}
