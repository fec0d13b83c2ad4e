package main

import (
	"context"
	"fmt"
	"os"

	"zenflow/internal/config"
	"zenflow/internal/store"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// StoreFactory creates record stores based on environment
type StoreFactory struct {
	env Environment
}

// NewStoreFactory creates a new store factory for the given environment
func NewStoreFactory(env Environment) *StoreFactory {
	return &StoreFactory{env: env}
}

// CreateStore creates a store instance based on the current environment
func (sf *StoreFactory) CreateStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch sf.env {
	case Development:
		return sf.createDevelopmentStore(ctx, cfg)
	case Testing:
		return sf.createTestingStore(ctx)
	default:
		return sf.createProductionStore(ctx, cfg)
	}
}

// createDevelopmentStore uses a sqlite file in the working directory
func (sf *StoreFactory) createDevelopmentStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	dev := *cfg
	dev.Store.Backend = config.BackendSQLite
	dev.Store.Dir = "."
	s, err := config.CreateStore(ctx, &dev)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize development store: %w", err)
	}
	return s, nil
}

// createTestingStore uses an in-memory sqlite database
func (sf *StoreFactory) createTestingStore(ctx context.Context) (store.Store, error) {
	s, err := config.CreateTestStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize testing store: %w", err)
	}
	return s, nil
}

// createProductionStore opens the backend named by the configuration
func (sf *StoreFactory) createProductionStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	return config.CreateStore(ctx, cfg)
}

// getEnvironment determines the current environment
func getEnvironment() Environment {
	switch os.Getenv("ZF_ENV") {
	case "development":
		return Development
	case "testing":
		return Testing
	default:
		// Default to production for safety
		return Production
	}
}
