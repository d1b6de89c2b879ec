package database

import (
	"fmt"
	"os"
	"path/filepath"

	"stockroom/internal/database/migration"

	"go.uber.org/zap"
)

// RunMigrations applies all pending migrations at startup. The cobra migrate
// subcommand uses the same code path with an explicit directory.
func RunMigrations(log *zap.Logger, migrationsDir string) error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	return migration.Migrate(dbURL, "file://"+absPath, true, log)
}
