package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"salesdesk/m/internal/api"
	"salesdesk/m/internal/config"
	"salesdesk/m/internal/database"
	"salesdesk/m/internal/events"
	"salesdesk/m/internal/logging"
	"salesdesk/m/internal/messaging"
	"salesdesk/m/internal/migrations"
	"salesdesk/m/internal/sales"
	"salesdesk/m/internal/seed"
	"salesdesk/m/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("salesdesk stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return err
	}

	st, err := store.New(db)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if cfg.AMQPURL != "" {
		mq, err := messaging.Dial(cfg.AMQPURL, events.Topics, logger)
		if err != nil {
			return err
		}
		defer mq.Close()
		publisher = mq
	} else {
		logger.Warn("AMQP_URL not set, events are only logged")
	}

	svc := sales.NewService(st, publisher, sales.WithLogger(logger))
	if cfg.SeedSalesCSV != "" {
		if _, err := seed.LoadSales(ctx, svc, cfg.SeedSalesCSV, logger); err != nil {
			logger.Warn("unable to seed sales", zap.Error(err))
		}
	}
	handler := api.New(svc, cfg.Secret, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("salesdesk server starting", zap.String("addr", srv.Addr), zap.String("driver", cfg.DatabaseDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
