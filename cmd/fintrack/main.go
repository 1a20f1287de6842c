package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/session"
	"fintrack/internal/storage"
)

const sessionSweepInterval = 15 * time.Minute

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadConfig((*config.Config).Validate)
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	logger.Info("Starting fintrack",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		"driver", cfg.DBDriver)

	store := cli.OpenStore(cfg, logger)
	defer store.Close()

	// Ledger events are optional. A nil publisher skips them entirely.
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client",
				log.FieldError, err.Error(),
				log.FieldErrorType, log.ErrorTypeNetwork)
			os.Exit(1)
		}
		defer client.Close()
		events = client
		logger.Info("Ledger events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Ledger events disabled - no AMQP_URL provided")
	}

	creds, err := services.NewCredentialService(store, cfg.BcryptCost, logger)
	if err != nil {
		logger.Error("Failed to initialize credential service", log.FieldError, err.Error())
		os.Exit(1)
	}

	gate, err := session.NewGate(store, session.Config{
		Secret: cli.SessionSecret(cfg, logger),
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize sessions",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Credentials:        creds,
		Ledger:             services.NewLedgerService(store, events, logger),
		Budgets:            services.NewBudgetService(store, events, time.Now, logger),
		Summaries:          services.NewSummaryService(store, store, logger),
		Sessions:           gate,
		DB:                 store,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		TrustedProxies:     cfg.TrustedProxies,
	})
	if err != nil {
		logger.Error("Failed to initialize HTTP server", log.FieldError, err.Error())
		os.Exit(1)
	}

	caches := cache.NewManager(logger)
	caches.Register("sessions", gate.Cache())
	caches.StartCleanup(5 * time.Minute)
	defer caches.Stop()

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()

	go sweepSessions(ctx, store, logger)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cli.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", log.FieldError, err.Error())
	}
	logger.Info("Server stopped gracefully")
}

// sweepSessions deletes expired and revoked sessions until ctx is done.
func sweepSessions(ctx context.Context, store *storage.Store, logger *log.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.DeleteExpiredSessions(ctx, now.UTC())
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("Session sweep failed",
						log.FieldError, err.Error(),
						log.FieldErrorType, log.ErrorTypeDatabase)
				}
				continue
			}
			if n > 0 {
				logger.Debug("Expired sessions removed", "count", n)
			}
		}
	}
}
