package services

import (
	"context"

	"zenflow/internal/state"

	"go.uber.org/zap"
)

// dataServiceImpl implements the DataService interface
type dataServiceImpl struct {
	env *Env
}

// NewDataService creates a new DataService instance
func NewDataService(env *Env) DataService {
	return &dataServiceImpl{env: env}
}

// Export serialises the whole state as a backup bundle
func (d *dataServiceImpl) Export(ctx context.Context) ([]byte, error) {
	return state.Export(d.env.State, d.env.now())
}

// Import merges a backup bundle. A payload that does not parse changes nothing.
func (d *dataServiceImpl) Import(ctx context.Context, data []byte) error {
	keys, err := state.Import(d.env.State, data)
	if err != nil {
		d.env.logger().Warn("import rejected", zap.Error(err))
		return err
	}
	if d.env.Store != nil {
		d.env.Store.PersistAll(ctx, d.env.State)
	}
	d.env.logger().Info("import applied", zap.Int("records", len(keys)))
	d.env.notify(NotifySuccess, "Data imported successfully!")
	return nil
}

// Reset deletes every stored record and restores the defaults in place
func (d *dataServiceImpl) Reset(ctx context.Context) {
	if d.env.Store != nil {
		d.env.Store.Clear(ctx)
	}
	state.Reset(d.env.State)
	d.env.notify(NotifyInfo, "All data has been reset")
}
