package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/bloomwatch/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/bloomwatch/internal/adapter/kafka"
	"github.com/couchcryptid/bloomwatch/internal/animation"
	"github.com/couchcryptid/bloomwatch/internal/config"
	"github.com/couchcryptid/bloomwatch/internal/domain"
	"github.com/couchcryptid/bloomwatch/internal/feed"
	"github.com/couchcryptid/bloomwatch/internal/observability"
	"github.com/couchcryptid/bloomwatch/internal/theme"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	generator := domain.NewSeededGenerator(seed, cfg.NoiseScale)

	// Optional Kafka sink (enabled via KAFKA_BROKERS / KAFKA_ENABLED).
	var sinks []feed.Sink
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, writer)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka sink disabled")
	}

	f := feed.New(generator, feed.Settings{
		Interval:     cfg.RefreshInterval,
		RefreshDelay: cfg.RefreshDelay,
		Clock:        clock,
	}, logger, metrics, sinks...)

	registry := animation.NewRegistry(animation.RegistrySettings{
		Clock:         clock,
		FrameInterval: cfg.FrameInterval,
		MaxWidgets:    cfg.MaxWidgets,
	}, logger, metrics)

	viewer := animation.NewViewer(clock, cfg.FrameInterval, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Dependencies{
		Feed:       f,
		Forecaster: generator,
		Widgets:    registry,
		Viewer:     viewer.Canvas,
		Theme:      theme.NewService(cfg.DefaultTheme),
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start the refresh scheduler.
	feedDone := make(chan struct{})
	go func() {
		defer close(feedDone)
		if err := f.Run(ctx); err != nil {
			logger.Error("feed error", "error", err)
		}
	}()

	viewer.Start()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	viewer.Stop()
	registry.Close()

	select {
	case <-feedDone:
	case <-shutdownCtx.Done():
		logger.Warn("feed did not stop before shutdown timeout")
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
