package main

import (
	"fmt"

	"github.com/bitfantasy/assetdesk/internal/config"
	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		zapLogger, err := initLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		defer zapLogger.Sync()

		db, err := initDatabase(cfg.Database, cfg.Log.Level)
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		zapLogger.Info("Running database migrations", zap.String("driver", cfg.Database.Driver))
		if err := db.AutoMigrate(entity.AllModels()...); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		zapLogger.Info("Database migrations completed")
		return nil
	},
}
