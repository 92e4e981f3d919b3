package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/NasaVasa/pricebot/internal/config"
	"github.com/NasaVasa/pricebot/internal/delivery/telegram"
	"github.com/NasaVasa/pricebot/internal/infra/db"
	"github.com/NasaVasa/pricebot/internal/infra/lock"
	"github.com/NasaVasa/pricebot/internal/infra/log"
	"github.com/NasaVasa/pricebot/internal/infra/market"
	"github.com/NasaVasa/pricebot/internal/infra/metrics"
	"github.com/NasaVasa/pricebot/internal/usecase"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	bot           *telegram.Bot
	scheduler     *Scheduler
	metricsServer *http.Server
	logger        *zap.Logger
	cleanupFns    []func() error
	wg            sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{logger: logger}
	a.cleanupFns = append(a.cleanupFns, func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	userRepo := db.NewUserRepository(dbConn)
	alertRepo := db.NewAlertRepository(dbConn)
	watchlistRepo := db.NewWatchlistRepository(dbConn)

	binanceClient := market.NewBinanceClient(cfg.BinanceAPIKey, cfg.BinanceSecretKey, cfg.BinanceBaseURL)
	oracle := market.NewOracle(
		market.NewBinanceSource(binanceClient, cfg.BinanceQuoteAsset, cfg.PriceTimeout, logger),
		market.NewQuoteClient(cfg.QuoteBaseURL, cfg.PriceTimeout, logger),
		logger,
	)

	api, err := telegram.NewAPI(cfg.TelegramBotToken, cfg.TelegramPollTimeout)
	if err != nil {
		a.Shutdown()
		return nil, err
	}

	stats := metrics.New()
	monitorOpts := []usecase.MonitorOption{
		usecase.WithMonitorObserver(stats),
		usecase.WithWorkers(cfg.MonitorConcurrency),
		usecase.WithRetention(cfg.AlertRetention),
	}
	if cfg.RedisAddr != "" {
		redisClient := lock.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable at startup, monitor lock will retry per run", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		a.cleanupFns = append(a.cleanupFns, redisClient.Close)
		monitorOpts = append(monitorOpts, usecase.WithRunLocker(lock.NewRedisLocker(redisClient, logger), cfg.MonitorLockTTL))
	}

	dispatcher := usecase.NewNotificationDispatcher(telegram.NewTransport(api, logger), logger)
	monitor := usecase.NewAlertMonitor(alertRepo, oracle, dispatcher, logger, monitorOpts...)

	userUC := usecase.NewUserUsecase(userRepo)
	alertUC := usecase.NewAlertUsecase(userRepo, alertRepo)
	quoteUC := usecase.NewQuoteUsecase(oracle)
	watchlist := usecase.NewWatchlistCache(userRepo, watchlistRepo, oracle, logger, usecase.WithWatchlistObserver(stats))

	handlers := telegram.NewHandlers(userUC, alertUC, quoteUC, watchlist, logger)
	a.bot = telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)
	a.scheduler = NewScheduler(monitor, stats, cfg.MonitorInterval, cfg.PurgeInterval, logger)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", stats.Handler())
		a.metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("pricebot service starting")

	if a.metricsServer != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.logger.Info("metrics server listening", zap.String("addr", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.scheduler.Run(ctx)
	}()

	a.logger.Info("pricebot service started")
	return a.bot.Start(ctx)
}

func (a *App) Shutdown() {
	a.logger.Info("pricebot service shutting down")
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Warn("failed to stop metrics server", zap.Error(err))
		}
		cancel()
	}
	a.wg.Wait()

	if err := closeAll(a.cleanupFns); err != nil {
		a.logger.Warn("cleanup failed", zap.Errors("errors", multierr.Errors(err)))
	}
	_ = a.logger.Sync()
}

// closeAll runs every cleanup even when earlier ones fail.
func closeAll(fns []func() error) error {
	var errs error
	for _, fn := range fns {
		errs = multierr.Append(errs, fn())
	}
	return errs
}
