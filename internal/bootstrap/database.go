package bootstrap

import (
	"errors"

	"consultation-be/internal/config"
	"consultation-be/pkg/database"

	"gorm.io/gorm"
)

// OpenDatabase returns nil without error for the memory storage driver.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Driver == config.StorageDriverMemory {
		return nil, nil
	}
	if cfg.Database.Connection == "" {
		return nil, errors.New("DB_CONNECTION_STRING is not set")
	}
	return database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
}
