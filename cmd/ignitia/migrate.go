package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ignitia/internal/database"
)

func newMigrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(os.Stdout)
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg.DSN())
			if err != nil {
				slog.Error("failed to connect to database", "error", err)
				return err
			}
			defer db.Close()

			if err := database.Migrate(db); err != nil {
				slog.Error("failed to run migrations", "error", err)
				return err
			}
			if seed {
				if err := database.Seed(db); err != nil {
					slog.Error("failed to seed database", "error", err)
					return err
				}
			}
			slog.Info("migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "also create the demo user when no users exist")
	return cmd
}
