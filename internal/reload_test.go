package internal

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tessirov/pressgate/internal/session"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatchConfig_CredentialsReloaded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	write := func(siteURL string) {
		t.Helper()
		data := "wordpress:\n  site_url: " + siteURL + "\n  username: bot\n  app_password: secret\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("https://old.example.com")

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	sess := session.New(session.Settings{SiteURL: "https://old.example.com", Username: "bot"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watchConfig(ctx, path, logger, sess)

	time.Sleep(100 * time.Millisecond)

	write("https://new.example.com")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return sess.SiteURL() == "https://new.example.com"
	}, "site URL not reloaded from config change")

	if got := sess.Settings().AppPassword; got != "secret" {
		t.Errorf("app password = %q, want secret", got)
	}
}

func TestWatchConfig_BadFileKeepsSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("wordpress:\n  site_url: https://a.example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	sess := session.New(session.Settings{SiteURL: "https://a.example.com"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watchConfig(ctx, path, logger, sess)

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Give the debounce time to fire, then confirm nothing changed.
	time.Sleep(500 * time.Millisecond)

	if got := sess.SiteURL(); got != "https://a.example.com" {
		t.Errorf("site URL = %q, want unchanged", got)
	}
}
