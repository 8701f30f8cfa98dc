package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/ogurasousui/workcard-admin/internal/platform/config"
	"github.com/ogurasousui/workcard-admin/internal/platform/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Version と Commit はビルド時に ldflags で設定されます。
	Version = "dev"
	Commit  = "none"

	configPath string
	verbose    bool

	cfg       *config.Config
	logger    zerolog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "workcards",
	Short:         "Workcard admin backend",
	Long:          `Workcard admin backend: serves the monthly attendance matrix over gRPC, runs schema migrations and exports matrices as Excel workbooks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}

		loaded, err := config.Load(config.ResolvePath(configPath))
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		logger, logCloser, err = logging.Init(cfg.Logging, verbose)
		if err != nil {
			return err
		}

		logger.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("command", cmd.Name()).
			Msg("workcards starting")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute はルートコマンドを実行します。
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (defaults to CONFIG_PATH env or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(serveCmd, migrateCmd, exportCmd)
}
