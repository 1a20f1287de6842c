// Package cli holds the start-up and shutdown steps shared by cmd/fintrack
// and cmd/fintrack-audit.
package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from cfg and makes it the default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: component,
		JSON:      cfg.LogFormat == "json",
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration and runs validate on it, exiting on failure.
func LoadConfig(validate func(*config.Config) error) *config.Config {
	cfg, err := config.Load()
	if err == nil {
		err = validate(cfg)
	}
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg
}

// SessionSecret returns the configured secret, or a random one when none is
// set. Random secrets invalidate every session on restart.
func SessionSecret(cfg *config.Config, logger *log.Logger) []byte {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret)
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Error("Failed to generate session secret", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Warn("SESSION_SECRET not set, using an ephemeral secret")
	return []byte(hex.EncodeToString(b))
}

// OpenStore opens the configured database, exiting on failure.
func OpenStore(cfg *config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(storage.Config{
		Driver:      cfg.DBDriver,
		SQLitePath:  cfg.SQLiteDBPath,
		DatabaseURL: cfg.DatabaseURL,
		LogQueries:  cfg.DBLogQueries,
	}, logger)
	if err != nil {
		logger.Error("Failed to open database",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeDatabase,
			"driver", cfg.DBDriver)
		os.Exit(1)
	}
	return store
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. The
// returned stop function releases the signal handler.
func GracefulShutdown(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
	}()
	return ctx, stop
}

// ShutdownTimeout bounds how long in-flight work may take after a signal.
const ShutdownTimeout = 30 * time.Second
