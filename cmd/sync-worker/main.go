package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"societypay/internal/amqp"
	"societypay/internal/cli"
	applog "societypay/internal/log"
	"societypay/internal/sheets/google"
	"societypay/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	repo := cli.OpenRepository(cfg, logger)
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer, err := google.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to create Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}

	syncWorker := worker.NewSyncWorker(repo, writer)

	logger.Info("Sync worker started",
		"queue", cfg.AMQPQueue,
		"sheet", cfg.GoogleSheetName)

	err = amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
		func(msg *amqp.PaymentSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Sync worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Sync worker stopped gracefully")
}
