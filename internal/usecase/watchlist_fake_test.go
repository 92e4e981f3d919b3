package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/shopspring/decimal"
)

type watchKey struct {
	userID int64
	symbol string
}

type fakeWatchlist struct {
	mu     sync.Mutex
	nextID uint
	items  map[watchKey]*domain.WatchlistItem
}

func newFakeWatchlist() *fakeWatchlist {
	return &fakeWatchlist{items: make(map[watchKey]*domain.WatchlistItem)}
}

func (f *fakeWatchlist) CountForUser(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for key := range f.items {
		if key.userID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeWatchlist) Get(_ context.Context, userID int64, symbol string) (*domain.WatchlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[watchKey{userID, symbol}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeWatchlist) Upsert(_ context.Context, item *domain.WatchlistItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := watchKey{item.UserID, item.Symbol}
	if existing, ok := f.items[key]; ok {
		existing.MarketType = item.MarketType
		existing.Label = item.Label
		existing.LastPrice = item.LastPrice
		existing.PriceChange24h = item.PriceChange24h
		existing.LastCheckedAt = item.LastCheckedAt
		item.ID = existing.ID
		item.AlertAbove = existing.AlertAbove
		item.AlertBelow = existing.AlertBelow
		return nil
	}
	f.nextID++
	item.ID = f.nextID
	copied := *item
	f.items[key] = &copied
	return nil
}

func (f *fakeWatchlist) Delete(_ context.Context, userID int64, symbol string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := watchKey{userID, symbol}
	if _, ok := f.items[key]; !ok {
		return false, nil
	}
	delete(f.items, key)
	return true, nil
}

func (f *fakeWatchlist) ListForUser(_ context.Context, userID int64) ([]domain.WatchlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.WatchlistItem
	for key, item := range f.items {
		if key.userID == userID {
			result = append(result, *item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].MarketType != result[j].MarketType {
			return result[i].MarketType < result[j].MarketType
		}
		return result[i].Symbol < result[j].Symbol
	})
	return result, nil
}

func (f *fakeWatchlist) UpdatePrice(_ context.Context, userID int64, symbol string, data domain.PriceData, checkedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[watchKey{userID, symbol}]
	if !ok {
		return domain.ErrNotFound
	}
	price := data.Price
	item.LastPrice = &price
	item.PriceChange24h = data.Change24h
	item.LastCheckedAt = &checkedAt
	return nil
}

func (f *fakeWatchlist) SetThresholds(_ context.Context, userID int64, symbol string, above, below *decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[watchKey{userID, symbol}]
	if !ok {
		return domain.ErrNotFound
	}
	item.AlertAbove = above
	item.AlertBelow = below
	return nil
}

func (f *fakeWatchlist) seed(item domain.WatchlistItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item.ID = f.nextID
	f.items[watchKey{item.UserID, item.Symbol}] = &item
}

func (f *fakeWatchlist) item(userID int64, symbol string) domain.WatchlistItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.items[watchKey{userID, symbol}]
}
