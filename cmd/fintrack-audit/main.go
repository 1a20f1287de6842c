package main

import (
	"os"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadConfig((*config.Config).ValidateWorker)
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting fintrack-audit", log.FieldOperation, log.OpStartup)

	store := cli.OpenStore(cfg, logger)
	defer store.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeNetwork)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()

	if err := worker.NewAuditWorker(store, logger).Run(ctx, client); err != nil {
		logger.Error("Audit worker stopped",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeNetwork)
		os.Exit(1)
	}
	logger.Info("Audit worker stopped gracefully")
}
