package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ogurasousui/workcard-admin/internal/platform/db/migrations"
)

const testConfig = `
server:
  listen_addr: "127.0.0.1:0"
database:
  host: "127.0.0.1"
  port: 5432
  user: "workcards"
  password: "secret"
  name: "workcards"
logging:
  level: "warn"
attendance:
  default_locale: "ja"
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	want := map[string]bool{"serve": false, "migrate": false, "export": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %s is not registered", name)
		}
	}
}

func TestMigrateCommand_RejectsUnknownAction(t *testing.T) {
	rootCmd.SetArgs([]string{"--config", writeConfig(t), "migrate", "sideways"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := Execute(context.Background())
	if !errors.Is(err, migrations.ErrUnsupportedAction) {
		t.Fatalf("expected ErrUnsupportedAction, got %v", err)
	}
	if cfg == nil || cfg.Attendance.DefaultLocale != "ja" {
		t.Fatalf("expected config to be loaded, got %+v", cfg)
	}
}

func TestRootCommand_MissingConfig(t *testing.T) {
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "migrate", "version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := Execute(context.Background()); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
