// Package migrations は golang-migrate によるスキーマ移行を実行します。
package migrations

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// DefaultDir はマイグレーションファイルの既定ディレクトリです。
const DefaultDir = "assets/migrations"

// Action はマイグレーションの操作です。
type Action string

const (
	ActionUp      Action = "up"
	ActionDown    Action = "down"
	ActionDrop    Action = "drop"
	ActionVersion Action = "version"
	ActionReset   Action = "reset"
)

// ErrUnsupportedAction は未知の操作が指定された場合に返却されます。
var ErrUnsupportedAction = errors.New("migrations: unsupported action")

// ParseAction は文字列を Action に変換します。空文字は up として扱います。
func ParseAction(raw string) (Action, error) {
	switch a := Action(raw); a {
	case "":
		return ActionUp, nil
	case ActionUp, ActionDown, ActionDrop, ActionVersion, ActionReset:
		return a, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedAction, raw)
	}
}

// Run は dir のマイグレーションを dsn のデータベースに適用します。
func Run(action Action, dir, dsn string, logger zerolog.Logger) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("migrations: resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return fmt.Errorf("migrations: create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case ActionUp:
		return ignoreNoChange(m.Up())
	case ActionDown:
		return ignoreNoChange(m.Down())
	case ActionReset:
		if err := ignoreNoChange(m.Down()); err != nil {
			return err
		}
		return ignoreNoChange(m.Up())
	case ActionDrop:
		return m.Drop()
	case ActionVersion:
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info().Msg("no migration applied")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("migration version")
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedAction, action)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
