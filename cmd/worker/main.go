// The worker consumes queued notification tasks and runs the channel
// fan-out off the request path.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"adiabatic_site_backend/internal/email"
	leadsrepo "adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/internal/notification"
	"adiabatic_site_backend/internal/scheduler"
	"adiabatic_site_backend/platform/config"
	"adiabatic_site_backend/platform/db"
	"adiabatic_site_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting notification worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := leadsrepo.New(pool)
	dispatcher := notification.NewDispatcher(log, repo,
		notification.NewEmailChannel(email.NewSender(cfg)),
		notification.NewTelegramChannel(notification.NewTelegramClient()),
		notification.NewViberChannel(notification.NewViberClient()),
	)
	notifier := notification.NewModule(log, repo, notification.NewSettingsRepository(pool), dispatcher, nil)

	worker, err := scheduler.NewWorker(cfg, notifier, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	log.Info("worker listening", "queue", cfg.GetAsynqQueueName())
	worker.Run(ctx)
	log.Info("worker stopped")
}
