package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/birdband-service/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/birdband-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/birdband-service/internal/adapter/kafka"
	"github.com/couchcryptid/birdband-service/internal/aggregate"
	"github.com/couchcryptid/birdband-service/internal/config"
	"github.com/couchcryptid/birdband-service/internal/observability"
	"github.com/couchcryptid/birdband-service/internal/pipeline"
	"github.com/couchcryptid/birdband-service/internal/search"
	"github.com/couchcryptid/birdband-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var source pipeline.FeedExtractor
	if cfg.FeedURL != "" {
		source = feed.NewClient(cfg.FeedURL, cfg.FeedTimeout, logger)
	} else {
		source = feed.NewFile(cfg.FeedFile)
	}

	st := store.New(aggregate.New(aggregate.NewState()), logger, metrics)
	index := search.NewIndex(cfg.SearchLimit, cfg.SearchCacheTTL)

	var opts []pipeline.Option
	var closers []func() error
	if cfg.KafkaPublishEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, pipeline.WithBirdLoader(writer))
		closers = append(closers, writer.Close)
		logger.Info("bird publishing enabled", "topic", cfg.KafkaBirdTopic)
	}
	if cfg.KafkaStreamEnabled {
		reader := kafkaadapter.NewReader(cfg, logger)
		opts = append(opts, pipeline.WithStream(reader, cfg.BatchSize))
		closers = append(closers, reader.Close)
		logger.Info("sighting stream enabled", "topic", cfg.KafkaSightingTopic)
	}

	p := pipeline.New(source, st, index, logger, metrics, opts...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// A failed feed fetch ends the process.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("ingestion failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	if !p.Ready() {
		logger.Error("shutdown before feed was ingested")
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
