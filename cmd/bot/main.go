package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cdrbot/internal/api"
	"cdrbot/internal/bot"
	"cdrbot/internal/cdr"
	"cdrbot/internal/config"
	"cdrbot/internal/domain"
	"cdrbot/internal/logging"
	"cdrbot/internal/metrics"
	"cdrbot/internal/recordings"
	"cdrbot/internal/report"
	"cdrbot/internal/repository"
	"cdrbot/internal/service"

	"github.com/prometheus/client_golang/prometheus"
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
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	metrics.Register()

	store, err := cdr.Open(cfg.CDR)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка подключения к базе CDR")
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, sessions := initSessionService(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	recordingStore := recordings.NewStore(cfg.Recordings.Path, logger)
	if cfg.Recordings.Watch {
		if err := recordingStore.Watch(ctx); err != nil {
			logger.Warn().Err(err).Str("path", cfg.Recordings.Path).Msg("Recordings watcher disabled")
		}
	}

	if cfg.Monitoring.Enabled {
		checks := map[string]domain.HealthChecker{"cdr": store}
		if redisClient != nil {
			checks["redis"] = api.CheckFunc(func(ctx context.Context) error {
				return repository.Ping(ctx, redisClient)
			})
		}
		monitor := api.NewHTTPServer(cfg.Monitoring, checks, prometheus.DefaultGatherer, logger)
		go func() {
			if err := monitor.Start(); err != nil {
				logger.Error().Err(err).Msg("HTTP monitor error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = monitor.Shutdown(shutdownCtx)
		}()
	}

	opts := report.Options{
		Self:           report.NewNumberSet(cfg.Report.SelfNumbers...),
		ShortNumberLen: cfg.Report.ShortNumberLen,
		ChunkLines:     cfg.Report.ChunkLines,
	}
	reports := service.NewReportService(store, opts, logger)

	return startBot(ctx, cfg, sessions, reports, recordingStore, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	return cfg, &logger, closer, nil
}

// initSessionService keeps sessions in Redis when it is configured and
// falls back to process memory while Redis is unreachable.
func initSessionService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.SessionService) {
	ttl := time.Duration(cfg.Session.TTL) * time.Second

	fallbackRepo := repository.NewMemorySessionRepository(ttl)
	fallbackRepo.StartSweeper(ctx, time.Duration(cfg.Session.SweepInterval)*time.Second, logger)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("Redis is not configured, sessions are kept in memory")
		return nil, service.NewSessionService(fallbackRepo, logger)
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if errPing := repository.Ping(ctx, redisClient); errPing != nil {
		logger.Warn().Err(errPing).Msg("Redis unavailable")
	}

	primaryRepo := repository.NewRedisSessionRepository(redisClient, ttl)
	sessionRepo := repository.NewFailoverSessionRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewSessionService(sessionRepo, logger)
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	sessions domain.SessionManager,
	reports domain.ReportService,
	recordingStore domain.RecordingStore,
	logger *zerolog.Logger,
) error {
	botAPI, err := bot.Connect(cfg.Telegram)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}

	tgService := service.NewTelegramService(botAPI, cfg.Bot.SendRPS, cfg.Bot.SendBurst)
	botMetrics := bot.NewMetrics(prometheus.DefaultRegisterer)

	telegramBot, err := bot.NewBot(tgService, cfg, sessions, reports, recordingStore, botMetrics, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)
	telegramBot.Stop()

	logger.Info().Msg("Shutdown complete.")
	return nil
}
