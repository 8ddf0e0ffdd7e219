package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"innkeep/internal/api"
	"innkeep/internal/cache"
	"innkeep/internal/config"
	"innkeep/internal/database"
	"innkeep/internal/domain"
	"innkeep/internal/events"
	"innkeep/internal/export"
	"innkeep/internal/logging"
	"innkeep/internal/metrics"
	"innkeep/internal/service"
	"innkeep/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	metrics.Register()

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	cacheTier := buildCache(redisClient, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus()
	subscribeEventLog(bus, &logger)

	notifyWorker := startNotifyWorker(ctx, cfg, db, redisClient, &logger)
	startBackups(ctx, cfg, db, &logger)

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	bookings := service.NewBookingService(db, cacheTier, bus, notifyWorker, cfg.Booking.MaxAdvanceDays, &logger)
	hotels := service.NewHotelService(db, cacheTier, ttl, cfg.Booking.MaxAdvanceDays, &logger)
	exporter := export.NewExporter(db, cfg.Exports.Path, &logger)

	server := api.NewServer(cfg.API, bookings, hotels, exporter, db, &logger)

	startMetricsServer(ctx, cfg, &logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("booking API started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	logger.Info().Msg("booking API stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initDatabase opens the database and seeds the hotel catalog from its YAML
// snapshot.
func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = cfg.Catalog.Path
	}
	if catalogPath == "" {
		catalogPath = "configs/catalog.yaml"
	}

	catalog, err := config.LoadCatalog(catalogPath)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", catalogPath).Msg("load catalog")
		db.Close()
		return nil, err
	}

	if err := db.SyncCatalog(context.Background(), catalog.Hotels, catalog.Rooms); err != nil {
		logger.Error().Err(err).Msg("sync catalog")
		db.Close()
		return nil, err
	}

	logger.Info().
		Int("hotels", len(catalog.Hotels)).
		Int("rooms", len(catalog.Rooms)).
		Msg("catalog synced")
	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := cache.NewRedisClient(cfg.Redis)
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = client.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

// buildCache assembles the cache tier: Redis with in-memory failover when
// Redis is reachable, plain in-memory otherwise.
func buildCache(redisClient *redis.Client, logger *zerolog.Logger) domain.Cache {
	memory := cache.NewMemoryCache()
	if redisClient == nil {
		return memory
	}
	return cache.NewFailoverCache(cache.NewRedisCache(redisClient), memory, logger)
}

func subscribeEventLog(bus *events.Bus, logger *zerolog.Logger) {
	eventLogger := logging.Component(logger, "events")
	handler := func(e *events.Event) error {
		eventLogger.Debug().Str("event_type", e.Type).RawJSON("payload", e.Payload).Msg("event")
		return nil
	}
	bus.Subscribe(events.EventBookingCreated, handler)
	bus.Subscribe(events.EventBookingCancelled, handler)
}

func startNotifyWorker(ctx context.Context, cfg *config.Config, db *database.DB, redisClient *redis.Client, logger *zerolog.Logger) *worker.NotifyWorker {
	var notifier domain.Notifier
	if cfg.Notify.WebhookURL != "" {
		timeout := time.Duration(cfg.Notify.TimeoutSeconds) * time.Second
		notifier = worker.NewWebhookNotifier(cfg.Notify.WebhookURL, timeout)
		logger.Info().Str("webhook_url", cfg.Notify.WebhookURL).Msg("webhook notifier enabled")
	} else {
		notifier = worker.NewLogNotifier(logger)
	}

	w := worker.NewNotifyWorker(db, notifier, redisClient, worker.RetryPolicy{}, logger)
	go w.Start(ctx)
	return w
}

func startBackups(ctx context.Context, cfg *config.Config, db *database.DB, logger *zerolog.Logger) {
	if !cfg.Backup.Enabled {
		return
	}
	runner := database.NewBackupRunner(db, cfg.Database.Path, cfg.Backup, logger)
	go runner.Start(ctx)
}

func startMetricsServer(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		logger.Info().Int("port", cfg.Monitoring.PrometheusPort).Msg("metrics server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}
