package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"zenflow/internal/errors"
	"zenflow/internal/store/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Options tune the sqlite store
type Options struct {
	// WriteTimeout bounds each Set and Delete. Zero means no extra bound.
	WriteTimeout   time.Duration
	DirPermissions os.FileMode
}

// Store keeps records in a single sqlite table
type Store struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

// New opens (creating if needed) the database at dbPath and migrates it.
// Use ":memory:" for a throwaway database.
func New(ctx context.Context, dbPath string, opts Options) (*Store, error) {
	if dbPath != ":memory:" {
		perms := opts.DirPermissions
		if perms == 0 {
			perms = 0o755
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), perms); err != nil {
			return nil, errors.NewStorageError("create data directory", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}
	// a single connection keeps ":memory:" databases from splitting per connection
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &Store{db: db, opts: opts, now: time.Now}, nil
}

// Get implements store.Store
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return QueryValue(ctx, s.db, `SELECT payload FROM records WHERE record_key = ?`, scanPayload, key)
}

// Set implements store.Store
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	query := `
	INSERT INTO records (record_key, payload, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(record_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	return Execute(ctx, s.db, "save "+key, query, key, value, FormatTimeForDB(s.now()))
}

// Delete implements store.Store
func (s *Store) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()
	return Execute(ctx, s.db, "delete "+key, `DELETE FROM records WHERE record_key = ?`, key)
}

// Keys implements store.Store
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	return QueryColumn(ctx, s.db, `SELECT record_key FROM records ORDER BY record_key ASC`)
}

// UpdatedAt returns when key was last written
func (s *Store) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	raw, ok, err := QueryValue(ctx, s.db, `SELECT updated_at FROM records WHERE record_key = ?`, scanString, key)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	t, err := ParseTimeFromDB(raw)
	if err != nil {
		return time.Time{}, false, HandleStorageError("parse updated_at", err)
	}
	return t, true, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.WriteTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.WriteTimeout)
	}
	return context.WithCancel(ctx)
}

func scanPayload(sc Scanner) ([]byte, error) {
	var payload []byte
	err := sc.Scan(&payload)
	return payload, err
}

func scanString(sc Scanner) (string, error) {
	var s string
	err := sc.Scan(&s)
	return s, err
}
