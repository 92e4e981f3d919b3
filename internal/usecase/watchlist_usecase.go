package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrWatchlistFull  = errors.New("watchlist full")
	ErrNotInWatchlist = errors.New("symbol not in watchlist")
)

type CapacityError struct {
	Count int64
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("watchlist full: %d/%d items", e.Count, e.Limit)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrWatchlistFull
}

// WatchlistCache keeps per-user tracked symbols with a last-known price that
// is refreshed lazily once it falls outside domain.StalenessWindow.
type WatchlistCache struct {
	users    domain.UserRepository
	items    domain.WatchlistRepository
	oracle   domain.PriceOracle
	observer WatchlistObserver
	logger   *zap.Logger
	now      func() time.Time
}

type WatchlistOption func(c *WatchlistCache)

func WithWatchlistObserver(observer WatchlistObserver) WatchlistOption {
	return func(c *WatchlistCache) {
		c.observer = observer
	}
}

func WithWatchlistClock(now func() time.Time) WatchlistOption {
	return func(c *WatchlistCache) {
		c.now = now
	}
}

func NewWatchlistCache(users domain.UserRepository, items domain.WatchlistRepository, oracle domain.PriceOracle, logger *zap.Logger, opts ...WatchlistOption) *WatchlistCache {
	c := &WatchlistCache{
		users:    users,
		items:    items,
		oracle:   oracle,
		observer: noopObserver{},
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *WatchlistCache) Add(ctx context.Context, userID int64, symbol, label string) (*domain.WatchlistItem, error) {
	if err := c.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	normalized, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return nil, ErrInvalidSymbol
	}

	existing, err := c.items.Get(ctx, userID, normalized)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing == nil {
		count, err := c.items.CountForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if count >= domain.MaxWatchlistItems {
			return nil, &CapacityError{Count: count, Limit: domain.MaxWatchlistItems}
		}
	}

	item := &domain.WatchlistItem{
		UserID:     userID,
		Symbol:     normalized,
		MarketType: c.oracle.Classify(normalized).Storable(),
		Label:      label,
	}
	if existing != nil {
		item.LastPrice = existing.LastPrice
		item.PriceChange24h = existing.PriceChange24h
		item.LastCheckedAt = existing.LastCheckedAt
	}

	data, err := c.oracle.UniversalPriceData(ctx, normalized)
	if err != nil {
		c.logger.Warn("initial watchlist price lookup failed", zap.Int64("telegram_user_id", userID), zap.String("symbol", normalized), zap.Error(err))
	} else {
		checkedAt := c.now().UTC()
		item.LastPrice = &data.Price
		item.PriceChange24h = data.Change24h
		item.LastCheckedAt = &checkedAt
	}

	if err := c.items.Upsert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *WatchlistCache) Remove(ctx context.Context, userID int64, symbol string) (bool, error) {
	normalized, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return false, ErrInvalidSymbol
	}
	return c.items.Delete(ctx, userID, normalized)
}

// Get returns the user's items ordered by market type then symbol. With
// refresh set, stale items are re-fetched; a failed fetch keeps the cached
// values as they were.
func (c *WatchlistCache) Get(ctx context.Context, userID int64, refresh bool) ([]domain.WatchlistItem, error) {
	items, err := c.items.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !refresh {
		return items, nil
	}

	for i := range items {
		item := &items[i]
		if item.Fresh(c.now()) {
			c.observer.CacheHit()
			continue
		}
		c.observer.CacheMiss()

		data, err := c.oracle.UniversalPriceData(ctx, item.Symbol)
		if err != nil {
			c.observer.RefreshFailed()
			c.logger.Warn("watchlist refresh failed", zap.Int64("telegram_user_id", userID), zap.String("symbol", item.Symbol), zap.Error(err))
			continue
		}

		checkedAt := c.now().UTC()
		if err := c.items.UpdatePrice(ctx, userID, item.Symbol, *data, checkedAt); err != nil {
			c.logger.Warn("failed to store watchlist refresh", zap.Int64("telegram_user_id", userID), zap.String("symbol", item.Symbol), zap.Error(err))
			continue
		}
		item.LastPrice = &data.Price
		item.PriceChange24h = data.Change24h
		item.LastCheckedAt = &checkedAt
	}
	return items, nil
}

func (c *WatchlistCache) SetAlert(ctx context.Context, userID int64, symbol string, above, below *decimal.Decimal) error {
	normalized, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return ErrInvalidSymbol
	}
	if err := c.items.SetThresholds(ctx, userID, normalized, above, below); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrNotInWatchlist
		}
		return err
	}
	return nil
}

func (c *WatchlistCache) requireUser(ctx context.Context, userID int64) error {
	if _, err := c.users.GetByTelegramID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotRegistered
		}
		return err
	}
	return nil
}
