package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/xvierd/focusflow/internal/adapters/audio"
	"github.com/xvierd/focusflow/internal/adapters/git"
	"github.com/xvierd/focusflow/internal/adapters/notification"
	"github.com/xvierd/focusflow/internal/adapters/storage"
	"github.com/xvierd/focusflow/internal/app"
	"github.com/xvierd/focusflow/internal/config"
	"github.com/xvierd/focusflow/internal/domain"
	"github.com/xvierd/focusflow/internal/logging"
	"github.com/xvierd/focusflow/internal/ports"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config      *config.Config
	store       ports.KeyValueStore
	coordinator *app.Coordinator
	notifier    *notification.Notifier
	audio       *audio.Player
	logFile     io.Closer
}

// deps holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var deps appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices(ctx context.Context) error {
	// A .env file in the working directory may set FOCUSFLOW_* overrides.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	deps.config = cfg

	deps.logFile, err = logging.Setup(logging.Options{
		Path:       config.GetLogPath(cfg),
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	// Determine database path
	if dbPath == "" {
		dbPath = config.GetDBPath(cfg)
	}
	deps.store, err = storage.Open(cfg.Storage.Backend, dbPath, time.Duration(cfg.Storage.PollInterval))
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	deps.notifier = notification.New(true, cfg.Notifications.Icon)
	deps.audio = audio.NewPlayer(cfg.Audio.Volume)

	workDir, _ := os.Getwd()
	d := app.Deps{
		Store:     deps.store,
		Notifier:  deps.notifier,
		Audio:     deps.audio,
		WorkDir:   workDir,
		SoundPath: soundPath(cfg),
	}
	if cfg.Git.Enabled {
		d.Git = git.NewDetector()
	}

	deps.coordinator = app.New(d)
	deps.coordinator.Bootstrap(ctx)

	// Desktop notifications follow the user setting.
	deps.notifier.SetEnabled(deps.coordinator.Settings(ctx).Notifications)
	deps.coordinator.OnChange(func(s app.State) {
		deps.notifier.SetEnabled(s.Settings.Notifications)
	})

	slog.Info("services initialized", "backend", cfg.Storage.Backend, "db", dbPath, "version", Version)
	return nil
}

// soundPath resolves catalogue sounds under the configured sounds dir.
func soundPath(cfg *config.Config) func(domain.Sound) string {
	return func(s domain.Sound) string {
		return filepath.Join(cfg.Audio.SoundsDir, s.File)
	}
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var errs []error
	if deps.audio != nil {
		errs = append(errs, deps.audio.Close())
	}
	if deps.store != nil {
		errs = append(errs, deps.store.Close())
	}
	if deps.logFile != nil {
		errs = append(errs, deps.logFile.Close())
	}
	deps = appDeps{}
	return errors.Join(errs...)
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
