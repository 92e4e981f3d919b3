package usecase

import (
	"context"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
)

type MonitorObserver interface {
	PriceLookupFailed(symbol string)
	AlertTriggered(market domain.MarketType)
	NotificationFailed()
	RunCompleted(report RunReport)
}

type WatchlistObserver interface {
	CacheHit()
	CacheMiss()
	RefreshFailed()
}

// RunLocker guards against overlapping monitor runs across processes.
type RunLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}

type noopObserver struct{}

func (noopObserver) PriceLookupFailed(string)         {}
func (noopObserver) AlertTriggered(domain.MarketType) {}
func (noopObserver) NotificationFailed()              {}
func (noopObserver) RunCompleted(RunReport)           {}
func (noopObserver) CacheHit()                        {}
func (noopObserver) CacheMiss()                       {}
func (noopObserver) RefreshFailed()                   {}

type noopLocker struct{}

func (noopLocker) TryLock(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}
