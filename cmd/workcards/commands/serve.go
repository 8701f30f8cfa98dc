package commands

import (
	"fmt"

	"github.com/ogurasousui/workcard-admin/internal/adapters/repository/postgres"
	"github.com/ogurasousui/workcard-admin/internal/core/attendance"
	"github.com/ogurasousui/workcard-admin/internal/core/business"
	"github.com/ogurasousui/workcard-admin/internal/core/employee"
	pg "github.com/ogurasousui/workcard-admin/internal/platform/db/postgres"
	"github.com/ogurasousui/workcard-admin/internal/platform/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logger.WithContext(cmd.Context())

		dbPool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("initialize database pool: %w", err)
		}
		defer dbPool.Close()

		txManager := pg.NewTransactionManager(dbPool)

		services := server.Services{
			Attendance:    attendance.NewService(postgres.NewAttendanceRepository(dbPool), nil, txManager),
			Employee:      employee.NewService(postgres.NewEmployeeRepository(dbPool), nil, txManager),
			Business:      business.NewService(postgres.NewBusinessRepository(dbPool), nil, txManager),
			DefaultLocale: cfg.Attendance.DefaultLocale,
		}

		grpcServer := server.New(cfg.Server.ListenAddr, services, logger)
		if err := grpcServer.Run(ctx); err != nil {
			return err
		}

		logger.Info().Msg("gRPC server stopped")
		return nil
	},
}
