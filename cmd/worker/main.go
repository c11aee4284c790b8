package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"frontdesk/internal/autocheckout"
	"frontdesk/internal/bootstrap"
	"frontdesk/internal/config"
	"frontdesk/internal/logging"
	"frontdesk/internal/metrics"
	"frontdesk/internal/notify"
	"frontdesk/internal/siteconfig"
	"frontdesk/internal/visitor"
)

// Worker notifies hosts about their visitors and runs the daily auto-checkout.
func main() {
	cfg := config.Load()
	log := logging.New("frontdesk-worker", cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.QueueBackend == "memory" {
		log.Fatal().Msg("the worker needs QUEUE_BACKEND=redis; with a memory queue the api runs these jobs itself")
	}
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("backends unavailable")
	}
	defer backends.Close()

	defaults, err := siteconfig.LoadDefaults(cfg.DefaultsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load defaults")
	}
	site := siteconfig.NewService(backends.Site, defaults, log)
	// checkouts done here publish to the same queue the dispatcher reads
	visitors := visitor.NewService(backends.Visitors, backends.Badges, backends.Queue, log)

	var sender notify.Sender = notify.NewLog(log)
	if cfg.NotifyWebhookURL != "" {
		sender = notify.NewWebhook(cfg.NotifyWebhookURL, cfg.NotifyTimeout, log)
		log.Info().Msg("host notifications via webhook")
	}

	messages, err := backends.Queue.Consume(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("queue consume init failed")
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		notify.NewDispatcher(site, sender, log).Run(ctx, messages)
	}()
	go func() {
		defer wg.Done()
		autocheckout.New(visitors, site, backends.Marker(), cfg.AutoCheckoutPoll, log).Run(ctx)
	}()

	log.Info().Msg("worker started, waiting for messages")
	wg.Wait()
	log.Info().Msg("worker stopped")
}
