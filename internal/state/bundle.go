package state

import (
	"encoding/json"
	"fmt"
	"time"

	"zenflow/internal/errors"
)

// Export serialises every exported record plus exportedAt as indented JSON
func Export(st *AppState, at time.Time) ([]byte, error) {
	bundle := make(map[string]any, len(records)+1)
	for _, rec := range records {
		if rec.bundle == "" {
			continue
		}
		bundle[rec.bundle] = rec.field(st)
	}
	bundle["exportedAt"] = at.UTC().Format(time.RFC3339)
	return json.MarshalIndent(bundle, "", "  ")
}

// Import merges a bundle into st and returns the keys it replaced.
// Every present field is decoded over its default before anything is applied, so a
// malformed payload leaves st untouched. Absent or null fields keep their current value.
// A collection holding null entries is malformed; an out-of-range profile is normalized.
func Import(st *AppState, data []byte) ([]Key, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewImportError(err)
	}
	if raw == nil {
		return nil, errors.NewImportError(nil)
	}

	staged := New()
	var present []record
	for _, rec := range records {
		if rec.bundle == "" {
			continue
		}
		msg, ok := raw[rec.bundle]
		if !ok || string(msg) == "null" {
			continue
		}
		if err := json.Unmarshal(msg, rec.field(staged)); err != nil {
			return nil, errors.NewImportError(err).WithContext("field", rec.bundle)
		}
		present = append(present, rec)
	}
	if holed := staged.repair(); len(holed) > 0 {
		return nil, errors.NewImportError(fmt.Errorf("null entry in %s", holed[0])).WithContext("field", holed[0])
	}

	keys := make([]Key, 0, len(present))
	for _, rec := range present {
		copyField(st, staged, rec)
		keys = append(keys, rec.key)
	}
	return keys, nil
}

// Reset restores every record of st to its default in place
func Reset(st *AppState) {
	*st = *New()
}
