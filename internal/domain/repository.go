package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

type UserRepository interface {
	GetByTelegramID(ctx context.Context, telegramUserID int64) (*User, error)
	Create(ctx context.Context, user *User) error
	Touch(ctx context.Context, telegramUserID int64, username string, seenAt time.Time) error
}

type AlertRepository interface {
	Create(ctx context.Context, alert *Alert) error
	ListByUser(ctx context.Context, userID int64) ([]Alert, error)
	SetActive(ctx context.Context, userID int64, alertID uint, active bool) error
	Delete(ctx context.Context, userID int64, alertID uint) error

	ListEligible(ctx context.Context) ([]Alert, error)
	MarkTriggered(ctx context.Context, alertID uint, message string, at time.Time) (MarkResult, error)
	PurgeTriggeredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type WatchlistRepository interface {
	CountForUser(ctx context.Context, userID int64) (int64, error)
	Get(ctx context.Context, userID int64, symbol string) (*WatchlistItem, error)
	Upsert(ctx context.Context, item *WatchlistItem) error
	Delete(ctx context.Context, userID int64, symbol string) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]WatchlistItem, error)
	UpdatePrice(ctx context.Context, userID int64, symbol string, data PriceData, checkedAt time.Time) error
	SetThresholds(ctx context.Context, userID int64, symbol string, above, below *decimal.Decimal) error
}
