package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrPriceUnavailable = errors.New("price unavailable")

type MarketType string

const (
	MarketCrypto  MarketType = "crypto"
	MarketStock   MarketType = "stock"
	MarketForex   MarketType = "forex"
	MarketUnknown MarketType = "unknown"
)

func (m MarketType) Icon() string {
	switch m {
	case MarketCrypto:
		return "🪙"
	case MarketStock:
		return "📈"
	case MarketForex:
		return "💱"
	default:
		return "📊"
	}
}

// Storable maps classifier output onto the set persisted with watchlist items.
func (m MarketType) Storable() MarketType {
	switch m {
	case MarketCrypto, MarketForex:
		return m
	default:
		return MarketStock
	}
}

type PriceData struct {
	Symbol    string
	Price     decimal.Decimal
	Change24h *decimal.Decimal
}

type PriceOracle interface {
	Classify(symbol string) MarketType
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	UniversalPriceData(ctx context.Context, symbol string) (*PriceData, error)
}
