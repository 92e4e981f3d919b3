package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	TelegramBotToken  string        `env:"TELEGRAM_BOT_TOKEN,required"`
	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	BinanceAPIKey     string        `env:"BINANCE_API_KEY"`
	BinanceSecretKey  string        `env:"BINANCE_SECRET_KEY"`
	BinanceBaseURL    string        `env:"BINANCE_BASE_URL"`
	BinanceQuoteAsset string        `env:"BINANCE_QUOTE_ASSET,default=USDT"`
	QuoteBaseURL      string        `env:"QUOTE_BASE_URL,default=https://query1.finance.yahoo.com"`
	PriceTimeout      time.Duration `env:"PRICE_TIMEOUT,default=5s"`

	MonitorInterval    time.Duration `env:"MONITOR_INTERVAL,default=60s"`
	MonitorConcurrency int           `env:"MONITOR_CONCURRENCY,default=4"`
	MonitorLockTTL     time.Duration `env:"MONITOR_LOCK_TTL,default=5m"`
	AlertRetention     time.Duration `env:"ALERT_RETENTION,default=168h"`
	PurgeInterval      time.Duration `env:"PURGE_INTERVAL,default=1h"`

	// Empty RedisAddr disables the cross-process monitor lock.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	MetricsAddr string `env:"METRICS_ADDR"`

	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`
	LogLevel            string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
