package commands

import (
	"fmt"

	"github.com/ogurasousui/workcard-admin/internal/platform/db/migrations"
	"github.com/spf13/cobra"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|reset|drop|version]",
	Short:     "Apply database schema migrations",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "reset", "drop", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := ""
		if len(args) > 0 {
			raw = args[0]
		}
		action, err := migrations.ParseAction(raw)
		if err != nil {
			return err
		}

		if err := migrations.Run(action, migrationsDir, cfg.Database.DSN(), logger); err != nil {
			return fmt.Errorf("migration %s failed: %w", action, err)
		}

		logger.Info().Str("action", string(action)).Msg("migration completed")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", migrations.DefaultDir, "directory containing migration files")
}
