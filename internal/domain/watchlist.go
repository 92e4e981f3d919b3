package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxWatchlistItems = 25
	StalenessWindow   = 2 * time.Minute
)

type WatchlistItem struct {
	ID             uint
	UserID         int64
	Symbol         string
	MarketType     MarketType
	Label          string
	LastPrice      *decimal.Decimal
	PriceChange24h *decimal.Decimal
	LastCheckedAt  *time.Time
	AlertAbove     *decimal.Decimal
	AlertBelow     *decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (w WatchlistItem) Fresh(now time.Time) bool {
	if w.LastCheckedAt == nil {
		return false
	}
	return now.Sub(*w.LastCheckedAt) < StalenessWindow
}
