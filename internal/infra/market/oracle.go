package market

import (
	"context"
	"fmt"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PriceSource interface {
	Fetch(ctx context.Context, symbol string) (*domain.PriceData, error)
}

// Oracle routes lookups to the source for the symbol's market and folds every
// provider failure into domain.ErrPriceUnavailable.
type Oracle struct {
	crypto PriceSource
	quotes PriceSource
	logger *zap.Logger
}

func NewOracle(crypto, quotes PriceSource, logger *zap.Logger) *Oracle {
	return &Oracle{crypto: crypto, quotes: quotes, logger: logger}
}

func (o *Oracle) Classify(symbol string) domain.MarketType {
	return Classify(symbol)
}

func (o *Oracle) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	data, err := o.UniversalPriceData(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return data.Price, nil
}

func (o *Oracle) UniversalPriceData(ctx context.Context, symbol string) (*domain.PriceData, error) {
	var source PriceSource
	switch market := Classify(symbol); market {
	case domain.MarketCrypto:
		source = o.crypto
	case domain.MarketStock, domain.MarketForex:
		source = o.quotes
	default:
		return nil, fmt.Errorf("%w: cannot classify %q", domain.ErrPriceUnavailable, symbol)
	}

	data, err := source.Fetch(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrPriceUnavailable, symbol, err)
	}
	if !data.Price.IsPositive() {
		o.logger.Warn("provider returned non-positive price", zap.String("symbol", symbol), zap.String("price", data.Price.String()))
		return nil, fmt.Errorf("%w: %s: non-positive price", domain.ErrPriceUnavailable, symbol)
	}
	data.Symbol = symbol
	return data, nil
}
