package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func NewBinanceClient(apiKey, secretKey, baseURL string) *binance.Client {
	client := binance.NewClient(apiKey, secretKey)
	if baseURL != "" {
		client.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return client
}

// BinanceSource prices crypto assets from the spot 24h ticker.
type BinanceSource struct {
	client     *binance.Client
	quoteAsset string
	timeout    time.Duration
	logger     *zap.Logger
}

func NewBinanceSource(client *binance.Client, quoteAsset string, timeout time.Duration, logger *zap.Logger) *BinanceSource {
	return &BinanceSource{
		client:     client,
		quoteAsset: strings.ToUpper(quoteAsset),
		timeout:    timeout,
		logger:     logger,
	}
}

func (s *BinanceSource) Fetch(ctx context.Context, symbol string) (*domain.PriceData, error) {
	pair := s.tradingPair(symbol)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	stats, err := s.client.NewListPriceChangeStatsService().Symbol(pair).Do(ctx)
	if err != nil {
		s.logger.Warn("binance ticker request failed", zap.String("symbol", symbol), zap.String("pair", pair), zap.Error(err))
		return nil, err
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, pair)
	}

	price, err := decimal.NewFromString(stats[0].LastPrice)
	if err != nil {
		return nil, fmt.Errorf("parse last price for %s: %w", pair, err)
	}
	data := &domain.PriceData{Symbol: symbol, Price: price}
	if change, err := decimal.NewFromString(stats[0].PriceChangePercent); err == nil {
		data.Change24h = &change
	}
	return data, nil
}

func (s *BinanceSource) tradingPair(symbol string) string {
	compact := pairSeparators.Replace(symbol)
	if base, ok := cryptoBase(compact); ok {
		return base + s.quoteAsset
	}
	return compact + s.quoteAsset
}
