package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/config"
	"github.com/swadrive/swadrive-backend/internal/repo"
	"github.com/swadrive/swadrive-backend/internal/sysutil"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	Long: `Create or update the database schema and exit.

The database is selected with DB_DRIVER (sqlite, mysql, postgres) and the
matching DB_* variables.

Examples:
  swadrive migrate
  DB_DRIVER=mysql DB_HOST=db DB_USER=swadrive swadrive migrate`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		sysutil.ConfigureLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)

		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		log.Info().Str("driver", cfg.DB.Driver).Msg("schema up to date")
		return nil
	},
}

// openDB connects to the configured store and migrates its schema.
func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DB.Driver, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
