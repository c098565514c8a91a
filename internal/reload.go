package internal

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tessirov/pressgate/internal/session"
	pkgconfig "github.com/tessirov/pressgate/pkg/config"
)

// watchConfig watches the config file and merges the wordpress section
// into the session when it changes. Editors often replace config files
// atomically (write to temp, rename over), so the parent directory is
// watched and events are matched by name.
//
// Only credentials are hot-reloaded. Transport, port, and draft path
// changes require a restart.
func watchConfig(ctx context.Context, path string, logger *slog.Logger, sess *session.Session) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("config watcher: init failed", slog.String("error", err.Error()))
		return
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		logger.Warn("config watcher: resolve path failed", slog.String("error", err.Error()))
		return
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		logger.Warn("config watcher: watch failed", slog.String("path", abs), slog.String("error", err.Error()))
		return
	}

	logger.Info("config watcher: started", slog.String("path", abs))

	// reloadTimer debounces bursts of write events from a single save.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("config watcher: stopped")
			return

		case <-reloadCh:
			reloadCredentials(abs, logger, sess)

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Error("config watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func reloadCredentials(path string, logger *slog.Logger, sess *session.Session) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		logger.Warn("config watcher: reload failed", slog.String("error", err.Error()))
		return
	}

	sess.Configure(session.Settings{
		SiteURL:     cfg.WordPress.SiteURL,
		Username:    cfg.WordPress.Username,
		AppPassword: cfg.WordPress.AppPassword,
		Password:    cfg.WordPress.Password,
	})
	logger.Info("config watcher: credentials reloaded", slog.String("site_url", cfg.WordPress.SiteURL))
}
