package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/ogurasousui/workcard-admin/internal/platform/config"
	"github.com/rs/zerolog"
)

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
// クエリのトレースは zerolog へ warn 以上で出力されます。
func BuildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   zerologTracer{},
		LogLevel: tracelog.LogLevelWarn,
	}

	return poolCfg, nil
}

// NewPool は pgxpool.Pool を生成し疎通確認を行います。
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return pool, nil
}

// zerologTracer は pgx の tracelog をコンテキストのロガーへ流します。
type zerologTracer struct{}

func (zerologTracer) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	logger := zerolog.Ctx(ctx)
	var event *zerolog.Event
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		event = logger.Debug()
	case tracelog.LogLevelInfo:
		event = logger.Info()
	case tracelog.LogLevelWarn:
		event = logger.Warn()
	case tracelog.LogLevelError:
		event = logger.Error()
	default:
		return
	}
	event.Str("component", "pgx").Fields(data).Msg(msg)
}
