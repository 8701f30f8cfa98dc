package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/workcard-admin/internal/adapters/grpc/handler"
	"github.com/ogurasousui/workcard-admin/internal/core/attendance"
	"github.com/ogurasousui/workcard-admin/internal/core/business"
	"github.com/ogurasousui/workcard-admin/internal/core/employee"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Services はサーバーに登録するユースケースの集合です。
type Services struct {
	Attendance    attendance.UseCase
	Employee      employee.UseCase
	Business      business.UseCase
	DefaultLocale string
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	logger     zerolog.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
func New(listenAddr string, services Services, logger zerolog.Logger, opts ...grpc.ServerOption) *Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(loggingInterceptor(logger))}, opts...)
	srv := grpc.NewServer(opts...)

	handler.RegisterAttendanceServiceServer(srv, handler.NewAttendanceGrpcHandler(services.Attendance, services.DefaultLocale))
	handler.RegisterEmployeeServiceServer(srv, handler.NewEmployeeGrpcHandler(services.Employee))
	handler.RegisterBusinessServiceServer(srv, handler.NewBusinessGrpcHandler(services.Business))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	for _, name := range []string{handler.AttendanceServiceName, handler.EmployeeServiceName, handler.BusinessServiceName} {
		healthSrv.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthSrv,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("gRPC server listening")

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	return s.Serve(lis)
}

// Serve は与えられたリスナーで待ち受けます。
func (s *Server) Serve(lis net.Listener) error {
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// loggingInterceptor はリクエストごとのロガーをコンテキストに載せ、結果を記録します。
func loggingInterceptor(base zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		logger := base.With().
			Str("request_id", uuid.NewString()).
			Str("method", info.FullMethod).
			Logger()
		ctx = logger.WithContext(ctx)

		start := time.Now()
		resp, err := next(ctx, req)
		code := status.Code(err)

		event := logger.Debug()
		if err != nil {
			event = logger.Warn().Err(err)
		}
		event.Str("code", code.String()).Dur("elapsed", time.Since(start)).Msg("handled request")

		return resp, err
	}
}
