package main

import (
	"context"
	"fmt"
	logByDefault "log"
	"log/slog"
	"os"
	"time"

	config "github.com/NatyaLunenok/telegram-aggregator/internal/config"
	"github.com/NatyaLunenok/telegram-aggregator/internal/filter"
	"github.com/NatyaLunenok/telegram-aggregator/internal/httpclient"
	"github.com/NatyaLunenok/telegram-aggregator/internal/ingest"
	log "github.com/NatyaLunenok/telegram-aggregator/internal/log"
	"github.com/NatyaLunenok/telegram-aggregator/internal/metrics"
	"github.com/NatyaLunenok/telegram-aggregator/internal/preload"
	"github.com/NatyaLunenok/telegram-aggregator/internal/server"
	storage "github.com/NatyaLunenok/telegram-aggregator/internal/storage"
	"github.com/NatyaLunenok/telegram-aggregator/internal/telegram"

	// This controls the maxprocs environment variable in container runtimes.
	// see https://martin.baillie.id/wrote/gotchas-in-the-go-network-packages-defaults/#bonus-gomaxprocs-containers-and-the-cfs
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	// Set the local timezone to UTC
	time.Local = time.UTC

	// Initialize the configuration
	config, err := config.MustLoadConfig()
	if err != nil {
		logByDefault.Fatalf("Config load error: %v", err)
		os.Exit(1)
	}

	// Logger configuration
	logger := log.New(
		log.WithLevel(config.Verbose),
		log.WithSource(),
	)

	if err := run(config, logger); err != nil {
		logger.ErrorContext(context.Background(), "an error occurred", slog.String("error", err.Error()))
		os.Exit(1)
	}

	os.Exit(0)
}

func run(config *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	_, err := maxprocs.Set(maxprocs.Logger(func(s string, i ...interface{}) {
		logger.DebugContext(ctx, fmt.Sprintf(s, i...))
	}))
	if err != nil {
		return fmt.Errorf("setting max procs: %w", err)
	}

	// Setup database connection
	db, err := storage.New(config, logger)
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}
	defer db.Close()

	// Setup metrics
	var m metrics.Metrics
	if config.Influx.URL != "" {
		m = metrics.NewMetricsImpl(config.Influx.URL, config.Influx.Token, config.Influx.Org, config.Influx.Bucket,
			map[string]string{"environment": config.Environment})
	} else {
		m = metrics.NewMetricsFake()
	}
	defer m.Close()

	// Create a http client for the bot API, optionally through a proxy
	httpClient, err := httpclient.NewHttpSocks5Client(&config.Proxy)
	if err != nil {
		return fmt.Errorf("http client setup error: %w", err)
	}

	// Setup Telegram client
	client, err := telegram.New(config, httpClient, logger)
	if err != nil {
		return fmt.Errorf("telegram client setup error: %w", err)
	}

	// Pull model: reconcile the configured chats once at startup
	preloader := preload.New(client, db, m, logger, config.Filter.AllowedChats)
	preloader.Run(ctx)

	// Push model: inbound messages through the admission filter
	ingestor := ingest.New(db, filter.New(config.Filter), m, logger)
	client.OnMessage(ingestor.HandleMessage)

	// Setup the HTTP read API
	srv := server.New(config, logger)
	srv.AddHealthCheck(func() (bool, map[string]string) {
		status := make(map[string]string)
		healthy := true

		if dbStatus, err := db.Status(); err != nil {
			status["database"] = dbStatus
			healthy = false
		} else {
			status["database"] = dbStatus
		}

		return healthy, status
	})
	srv.AddAggregatorRoutes(db)

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logger.ErrorContext(ctx, "api server error", slog.String("error", err.Error()))
		}
	}()

	logger.InfoContext(ctx, "Server started", slog.String("host", config.API.Host), slog.Int("port", config.API.Port))

	client.Start()

	return nil
}
