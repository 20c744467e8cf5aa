package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"geomoments/internal/platform/config"
)

func testConfig(t *testing.T, ephemeral bool) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.StateDir = filepath.Join(t.TempDir(), "state")
	cfg.DBPath = filepath.Join(cfg.StateDir, "geomoments.db")
	cfg.CookiePath = filepath.Join(cfg.StateDir, "cookies.json")
	cfg.LogPath = filepath.Join(cfg.StateDir, "geomoments.log")
	cfg.Ephemeral = ephemeral
	return cfg
}

func TestNewWiresPersistentState(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, false)
	app, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close()

	if _, err := os.Stat(cfg.DBPath); err != nil {
		t.Fatalf("feed cache should be created under the state dir: %v", err)
	}
	out, err := app.GeoCLI.Locate(context.Background())
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if out.Position.Lat != cfg.Map.CenterLat || out.Source != "config" {
		t.Fatalf("unexpected locate result %+v", out)
	}
	session, err := app.AuthCLI.Current(context.Background())
	if err != nil || session.Authenticated {
		t.Fatalf("fresh state should be anonymous, got %+v err=%v", session, err)
	}
}

func TestEphemeralTouchesNoFiles(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, true)
	app, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	logFile, err := OpenLogFile(cfg)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	_, _ = logFile.Write([]byte("dropped\n"))
	_ = logFile.Close()

	if _, err := os.Stat(cfg.StateDir); !os.IsNotExist(err) {
		t.Fatalf("ephemeral run must not create the state dir, stat err=%v", err)
	}
}

func TestOpenLogFileAppends(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, false)
	for _, line := range []string{"one\n", "two\n"} {
		f, err := OpenLogFile(cfg)
		if err != nil {
			t.Fatalf("open log: %v", err)
		}
		_, _ = f.Write([]byte(line))
		_ = f.Close()
	}
	payload, err := os.ReadFile(cfg.LogPath)
	if err != nil || string(payload) != "one\ntwo\n" {
		t.Fatalf("unexpected log contents %q err=%v", payload, err)
	}
}
