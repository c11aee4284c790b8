package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"frontdesk/internal/auth"
	"frontdesk/internal/autocheckout"
	"frontdesk/internal/bootstrap"
	"frontdesk/internal/cloudinary"
	"frontdesk/internal/config"
	"frontdesk/internal/handler"
	"frontdesk/internal/logging"
	"frontdesk/internal/metrics"
	"frontdesk/internal/notify"
	"frontdesk/internal/siteconfig"
	"frontdesk/internal/slideshow"
	"frontdesk/internal/visitor"
)

func main() {
	cfg := config.Load()
	log := logging.New("frontdesk-api", cfg.Env, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Register()

	if err := runHTTP(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func runHTTP(cfg config.App, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backends.Close()

	defaults, err := siteconfig.LoadDefaults(cfg.DefaultsPath)
	if err != nil {
		return err
	}

	visitors := visitor.NewService(backends.Visitors, backends.Badges, backends.Queue, log)
	slides := slideshow.NewService(backends.Slides, log)
	site := siteconfig.NewService(backends.Site, defaults, log)
	authSvc := auth.NewService(backends.Users, auth.Options{
		Issuer:     cfg.JWTIssuer,
		SigningKey: cfg.JWTSigningKey,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}, log)
	if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	deps := handler.Deps{
		Visitors:       visitors,
		Slides:         slides,
		Site:           site,
		Auth:           authSvc,
		Log:            log,
		DisplayRefresh: cfg.DisplayRefresh,
	}
	if cfg.CloudinaryEnabled() {
		deps.Uploads = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder, "")
		log.Info().Str("cloud", cfg.CloudinaryCloudName).Msg("cloudinary configured")
	} else {
		log.Warn().Msg("cloudinary not configured, image uploads disabled")
	}
	if backends.DB != nil {
		deps.DB = backends.DB
	}
	if backends.Redis != nil {
		deps.Redis = backends.Redis
	}

	// with an in-process queue nobody else can consume the events or run the daily checkout
	if cfg.QueueBackend == "memory" {
		messages, err := backends.Queue.Consume(ctx)
		if err != nil {
			return err
		}
		go notify.NewDispatcher(site, notify.NewLog(log), log).Run(ctx, messages)
		go autocheckout.New(visitors, site, backends.Marker(), cfg.AutoCheckoutPoll, log).Run(ctx)
	}

	r := handler.NewRouter(handler.New(deps), handler.RouterConfig{
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		JWTSigningKey:   cfg.JWTSigningKey,
		JWTIssuer:       cfg.JWTIssuer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// no write timeout: display streams stay open
		IdleTimeout: 60 * time.Second,
		// request contexts end on shutdown so open streams close
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	log.Info().Msg("shutting down server")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced shutdown")
	}
	log.Info().Msg("server exited")
	return nil
}
