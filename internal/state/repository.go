package state

import (
	"context"
	"encoding/json"

	"zenflow/internal/logging"
	"zenflow/internal/store"

	"go.uber.org/zap"
)

// Repository loads and saves AppState records through a Store.
// Save failures are logged and swallowed: in-memory state stays authoritative for the session.
type Repository struct {
	store     store.Store
	log       *logging.Logger
	onFailure func(key Key, err error)
}

// NewRepository creates a repository over s
func NewRepository(s store.Store, log *logging.Logger) *Repository {
	if log == nil {
		log = logging.Nop()
	}
	return &Repository{store: s, log: log.Named("state")}
}

// OnFailure registers a callback invoked for every swallowed persistence error
func (r *Repository) OnFailure(fn func(key Key, err error)) {
	r.onFailure = fn
}

// Load reads every record. A missing, unreadable or corrupt record keeps its default.
// Null collection entries are dropped and the profile is normalized.
func (r *Repository) Load(ctx context.Context) *AppState {
	st := New()
	for _, rec := range records {
		data, ok, err := r.store.Get(ctx, string(rec.key))
		if err != nil {
			r.fail(rec.key, "load failed", err)
			continue
		}
		if !ok {
			continue
		}

		scratch := New()
		if err := json.Unmarshal(data, rec.field(scratch)); err != nil {
			r.fail(rec.key, "corrupt record ignored", err)
			continue
		}
		copyField(st, scratch, rec)
	}
	for _, field := range st.repair() {
		r.log.Warn("null entries dropped", zap.String("field", field))
	}
	return st
}

// Exists reports whether a record is stored under key. Read errors count as absent.
func (r *Repository) Exists(ctx context.Context, key Key) bool {
	_, ok, err := r.store.Get(ctx, string(key))
	return err == nil && ok
}

// Persist writes the named records of st
func (r *Repository) Persist(ctx context.Context, st *AppState, keys ...Key) {
	for _, key := range keys {
		rec, ok := lookup(key)
		if !ok {
			r.log.Warn("unknown record key", zap.String("key", string(key)))
			continue
		}
		data, err := json.Marshal(rec.field(st))
		if err != nil {
			r.fail(key, "encode failed", err)
			continue
		}
		if err := r.store.Set(ctx, string(key), data); err != nil {
			r.fail(key, "save failed", err)
		}
	}
}

// PersistAll writes every record of st
func (r *Repository) PersistAll(ctx context.Context, st *AppState) {
	r.Persist(ctx, st, AllKeys()...)
}

// Clear deletes every record from the store
func (r *Repository) Clear(ctx context.Context) {
	for _, key := range AllKeys() {
		if err := r.store.Delete(ctx, string(key)); err != nil {
			r.fail(key, "delete failed", err)
		}
	}
}

func (r *Repository) fail(key Key, msg string, err error) {
	r.log.Warn(msg, zap.String("key", string(key)), zap.Error(err))
	if r.onFailure != nil {
		r.onFailure(key, err)
	}
}
