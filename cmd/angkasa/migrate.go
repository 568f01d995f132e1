package main

import (
	"errors"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/angkasa-id/angkasa/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		m, err := migrate.New("file://db/migrations", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer m.Close()

		switch err := m.Up(); {
		case err == nil:
			slog.Info("migrations applied")
		case errors.Is(err, migrate.ErrNoChange):
			slog.Info("database schema already up to date")
		default:
			return err
		}
		return nil
	},
}
