package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"mdpreview/internal/app"
	"mdpreview/internal/config"
	"mdpreview/internal/infra/logging"
	"mdpreview/internal/infra/postgres"
	"mdpreview/internal/infra/ratelimit"
)

func main() {
	cfg := loadConfig(parseFlags(os.Args[1:]))

	if err := ensureLogDir(cfg.Logger.File); err != nil {
		logging.Error("Failed to create log directory", "error", err)
	}

	archive, db := openArchive(cfg)
	opts := logging.Options{
		File:       cfg.Logger.File,
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Stdout:     cfg.Logger.Stdout,
		Rotate:     cfg.Logger.Rotate,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
		Compress:   cfg.Logger.Compress,
	}
	var log *logging.Logger
	if archive != nil {
		log = logging.InitLogger(opts, archive)
	} else {
		log = logging.InitLogger(opts)
	}

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Info(fmt.Sprintf(format, args...))
	})); err != nil {
		log.Warn("Failed to set GOMAXPROCS", "error", err)
	}

	store := ratelimit.NewStore(ratelimit.RedisConfig{
		Addr: cfg.RateLimiter.RedisHost,
		DB:   cfg.RateLimiter.RedisDB,
	}, log)

	app := app.SetupApp(app.Deps{Config: cfg, Logger: log, Storage: store})

	idleConnsClosed := make(chan struct{})
	startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed

	if err := store.Close(); err != nil {
		log.Warn("Failed to close rate limiter storage", "error", err)
	}
	if archive != nil {
		archive.Close()
		_ = db.Close()
	}
	_ = logging.Close()
}

// parseFlags returns the --config value. Unknown flags are ignored so the
// binary tolerates wrappers that append their own arguments.
func parseFlags(args []string) string {
	fs := flag.NewFlagSet("mdpreview", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.StringP("config", "c", "", "path to the YAML config file")
	_ = fs.Parse(args)
	return *path
}

func loadConfig(path string) config.Config {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// openArchive starts the Postgres event archive when one is configured.
func openArchive(cfg config.Config) (*logging.EventHook, *postgres.DB) {
	if !cfg.Logger.Postgres.Enabled() {
		return nil, nil
	}
	dsn, err := postgres.DSN(cfg.Logger.Postgres)
	if err != nil {
		logging.Error("Invalid log archive settings, archive disabled", "error", err)
		return nil, nil
	}
	db := postgres.NewDB()
	if err := probeArchive(db, dsn); err != nil {
		logging.Warn("Log archive unreachable, events will be retried", "error", err)
	}
	hook := logging.NewEventHook(postgres.NewEventStore(db, dsn), cfg.Logger.EventBuffer)
	hook.Start()
	return hook, db
}

func probeArchive(db *postgres.DB, dsn string) error {
	conn, err := db.Get(dsn)
	if err != nil {
		return err
	}
	return postgres.Ping(conn, 2*time.Second)
}

func ensureLogDir(path string) error {
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// startServer starts the Fiber app and listens for shutdown signals
func startServer(app *fiber.App, cfg config.Config, idleConnsClosed chan struct{}) {
	go func() {
		logging.Info("Server listening", "addr", cfg.Server.Host+cfg.Server.Port)
		if err := app.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			logging.Error("Server error", "error", err)
		}
	}()

	// Listen for OS termination signals
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint
	signal.Stop(sigint)

	logging.Warn("Shutdown signal received, closing server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	logging.Info("Server stopped cleanly")
}
