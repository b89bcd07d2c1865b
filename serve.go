package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lizet96/clinic-registry/config"
	"github.com/lizet96/clinic-registry/database"
	"github.com/lizet96/clinic-registry/events"
	"github.com/lizet96/clinic-registry/handlers"
	"github.com/lizet96/clinic-registry/middleware"
	"github.com/lizet96/clinic-registry/routes"
	"github.com/lizet96/clinic-registry/services"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the registry API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Port = port
			}
			return runServer(cfg)
		},
	}
	cmd.Flags().String("port", "", "listen port (defaults to PORT)")
	return cmd
}

func runServer(cfg *config.Config) error {
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open storage")
		return err
	}
	defer store.Close()

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to kafka")
		return err
	}
	defer publisher.Close()

	svc := services.NewClinicService(store, publisher, logger)
	app := routes.NewApp(handlers.New(svc, logger), routes.Options{
		Logger:      logger,
		Environment: cfg.Environment,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit: middleware.RateLimitConfig{
			Max:        cfg.RateLimitMax,
			Expiration: cfg.RateLimitWindow,
		},
		BodyLimit: cfg.BodyLimit,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("port", cfg.Port).
			Str("storage", store.Kind()).
			Bool("kafka", cfg.KafkaEnabled()).
			Msg("clinic registry listening")
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newPublisher(cfg *config.Config, logger zerolog.Logger) (events.Publisher, error) {
	if !cfg.KafkaEnabled() {
		logger.Info().Msg("KAFKA_BROKERS not set, doctor events are not published")
		return events.NopPublisher{}, nil
	}
	pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, err
	}
	logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing doctor events")
	return pub, nil
}
