package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"societypay/internal/amqp"
	"societypay/internal/bot"
	"societypay/internal/cli"
	"societypay/internal/health"
	applog "societypay/internal/log"
	"societypay/internal/report"
	"societypay/internal/telegram"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.OpenRepository(cfg, logger)
	defer repo.Close()

	// The sheet mirror is optional: without a broker the bot still
	// records payments, they are just not mirrored.
	var publisher bot.SyncPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, sheet mirror disabled", applog.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	transport, err := telegram.New(cfg.BotToken, logger.WithComponent(applog.ComponentTransport))
	if err != nil {
		logger.Error("Failed to create Telegram transport", applog.FieldError, err)
		os.Exit(1)
	}
	if err := transport.RegisterCommands(); err != nil {
		logger.Warn("Failed to register command menu", applog.FieldError, err)
	}

	dispatcher := bot.NewDispatcher(
		repo,
		report.NewEngine(repo),
		transport,
		cfg,
		publisher,
		logger.WithComponent(applog.ComponentDispatch),
		cfg.ResetTimeout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return health.NewServer(cfg.Port).Run(ctx)
	})
	g.Go(func() error {
		return transport.Poll(ctx, dispatcher)
	})

	logger.Info("Society payment bot started",
		"port", cfg.Port,
		"admins", len(cfg.AdminIDs))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Bot stopped gracefully")
}
