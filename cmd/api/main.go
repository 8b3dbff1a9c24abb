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

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/export"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/notify"
	"shareit/internal/repository"
	"shareit/internal/service"
	"shareit/internal/worker"

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

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Backup.Enabled {
		go database.NewBackupService(db, cfg.Backup, &logger).Start(ctx)
	}

	redisClient := initRedis(ctx, cfg, &logger)
	if redisClient != nil {
		defer repository.Close(redisClient)
	}
	quota := initQuota(redisClient, &logger)

	bus := events.NewEventBus(&logger)
	sinksCtx, stopSinks := context.WithCancel(ctx)
	if sink := initKafka(cfg, &logger); sink != nil {
		kafkaQueue := runAsync(sinksCtx, bus, "kafka", &logger)
		sink.Attach(kafkaQueue)
		defer sink.Close()
		defer kafkaQueue.Wait()
	}
	if telegramQueue := initTelegram(sinksCtx, cfg, bus, &logger); telegramQueue != nil {
		defer telegramQueue.Wait()
	}
	defer stopSinks()
	if sheetsWorker := initSheetsWorker(ctx, cfg, db, redisClient, &logger); sheetsWorker != nil {
		sheetsWorker.Attach(bus)
		go sheetsWorker.Start(ctx)
	}

	services := api.Services{
		Users:    service.NewUserService(db, &logger),
		Items:    service.NewItemService(db, bus, &logger),
		Requests: service.NewRequestService(db, bus, &logger),
		Bookings: service.NewBookingService(db, bus, &logger),
	}
	httpServer := api.NewHTTPServer(cfg, services, db, quota, &logger)

	var grpcServer *api.GRPCServer
	if cfg.GRPC.Enabled {
		grpcServer, err = api.NewGRPCServer(cfg.GRPC, cfg.RateLimit, db, &logger)
		if err != nil {
			logger.Error().Err(err).Msg("create grpc server")
			return err
		}
		go grpcServer.WatchHealth(ctx, 15*time.Second)
	}

	startMetrics(ctx, cfg, &logger)

	return startServers(ctx, grpcServer, httpServer, cfg, &logger)
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
	logger := *logging.Component(baseLogger, "api-main")

	return cfg, logger, closer, nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		repository.Close(redisClient)
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initQuota prefers Redis so that quotas hold across replicas, falling back
// to process memory while Redis is unreachable.
func initQuota(redisClient *redis.Client, logger *zerolog.Logger) domain.QuotaRepository {
	memory := repository.NewMemoryQuotaRepository()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverQuotaRepository(repository.NewRedisQuotaRepository(redisClient), memory, logger)
}

func initKafka(cfg *config.Config, logger *zerolog.Logger) *events.KafkaSink {
	if !cfg.Kafka.Enabled {
		return nil
	}
	sink, err := events.NewKafkaSink(cfg.Kafka, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("kafka init failed, continuing without event export")
		return nil
	}
	logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka sink attached")
	return sink
}

func initTelegram(ctx context.Context, cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) *events.AsyncSubscriber {
	if cfg.Telegram.BotToken == "" {
		return nil
	}
	bot, err := notify.NewTelegramBot(cfg.Telegram)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return nil
	}
	queue := runAsync(ctx, bus, "telegram", logger)
	notify.NewTelegramNotifier(bot, cfg.Telegram.ChatID, logger).Attach(queue)
	logger.Info().Str("bot", bot.Self.UserName).Msg("telegram notifications enabled")
	return queue
}

// runAsync starts a queue that keeps a slow sink off the request path.
func runAsync(ctx context.Context, bus *events.EventBus, name string, logger *zerolog.Logger) *events.AsyncSubscriber {
	queue := events.NewAsyncSubscriber(bus, name, 256, logger)
	go queue.Run(ctx)
	return queue
}

func initSheetsWorker(ctx context.Context, cfg *config.Config, db *database.DB, redisClient *redis.Client, logger *zerolog.Logger) *worker.SheetsWorker {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadsheetID == "" {
		return nil
	}

	writer, err := export.NewSheetsWriter(ctx, cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return worker.NewSheetsWorker(db, writer, redisClient, worker.RetryPolicy{}, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startServers(
	ctx context.Context,
	grpcServer *api.GRPCServer,
	httpServer *api.HTTPServer,
	cfg *config.Config,
	logger *zerolog.Logger,
) error {
	if grpcServer != nil {
		go func() {
			if err := grpcServer.Serve(); err != nil {
				logger.Error().Err(err).Msg("grpc server stopped")
			}
		}()
		logger.Info().Str("grpc_addr", grpcServer.Addr()).Msg("grpc health server started")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Shutdown(shutdownCtx)
	}
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
