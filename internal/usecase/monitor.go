package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	monitorLockKey          = "pricebot:monitor:run"
	defaultMonitorWorkers   = 4
	defaultMonitorLockTTL   = 5 * time.Minute
	DefaultTriggerRetention = 7 * 24 * time.Hour
)

type RunReport struct {
	RunID              string
	Skipped            bool
	Eligible           int
	Symbols            int
	UnavailableSymbols []string
	Evaluated          int
	Triggered          int
	AlreadyTriggered   int
	Malformed          int
	Failed             int
	Duration           time.Duration
}

type alertOutcome int

const (
	outcomeNotTriggered alertOutcome = iota
	outcomeTriggered
	outcomeAlreadyTriggered
	outcomeMalformed
	outcomeFailed
)

type groupResult struct {
	symbol      string
	unavailable bool
	failed      bool
	outcomes    []alertOutcome
}

type AlertMonitor struct {
	alerts     domain.AlertRepository
	oracle     domain.PriceOracle
	dispatcher *NotificationDispatcher
	logger     *zap.Logger

	observer  MonitorObserver
	locker    RunLocker
	lockTTL   time.Duration
	workers   int
	retention time.Duration
	now       func() time.Time
}

type MonitorOption func(m *AlertMonitor)

func WithMonitorObserver(observer MonitorObserver) MonitorOption {
	return func(m *AlertMonitor) {
		m.observer = observer
	}
}

func WithRunLocker(locker RunLocker, ttl time.Duration) MonitorOption {
	return func(m *AlertMonitor) {
		m.locker = locker
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

func WithWorkers(workers int) MonitorOption {
	return func(m *AlertMonitor) {
		if workers > 0 {
			m.workers = workers
		}
	}
}

func WithRetention(retention time.Duration) MonitorOption {
	return func(m *AlertMonitor) {
		if retention > 0 {
			m.retention = retention
		}
	}
}

func WithMonitorClock(now func() time.Time) MonitorOption {
	return func(m *AlertMonitor) {
		m.now = now
	}
}

func NewAlertMonitor(alerts domain.AlertRepository, oracle domain.PriceOracle, dispatcher *NotificationDispatcher, logger *zap.Logger, opts ...MonitorOption) *AlertMonitor {
	m := &AlertMonitor{
		alerts:     alerts,
		oracle:     oracle,
		dispatcher: dispatcher,
		logger:     logger,
		observer:   noopObserver{},
		locker:     noopLocker{},
		lockTTL:    defaultMonitorLockTTL,
		workers:    defaultMonitorWorkers,
		retention:  DefaultTriggerRetention,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CheckAllAlerts evaluates every eligible alert once. Only a failure to load
// the eligible set is returned; everything below is logged and counted.
func (m *AlertMonitor) CheckAllAlerts(ctx context.Context) (RunReport, error) {
	start := m.now()
	report := RunReport{RunID: uuid.NewString()}
	logger := m.logger.With(zap.String("run_id", report.RunID))

	release, acquired, err := m.locker.TryLock(ctx, monitorLockKey, m.lockTTL)
	if err != nil {
		logger.Warn("monitor lock unavailable, relying on conditional trigger", zap.Error(err))
	} else if !acquired {
		logger.Info("previous monitor run still active, skipping")
		report.Skipped = true
		m.observer.RunCompleted(report)
		return report, nil
	} else {
		defer release()
	}

	alerts, err := m.alerts.ListEligible(ctx)
	if err != nil {
		return report, fmt.Errorf("list eligible alerts: %w", err)
	}
	report.Eligible = len(alerts)
	if len(alerts) == 0 {
		report.Duration = m.now().Sub(start)
		m.observer.RunCompleted(report)
		return report, nil
	}

	groups := lo.GroupBy(alerts, func(alert domain.Alert) string {
		return alert.Symbol
	})
	symbols := lo.Keys(groups)
	sort.Strings(symbols)
	report.Symbols = len(symbols)

	results := make([]groupResult, len(symbols))
	var workers errgroup.Group
	workers.SetLimit(m.workers)
	for i, symbol := range symbols {
		workers.Go(func() error {
			results[i] = m.checkSymbol(ctx, logger, symbol, groups[symbol])
			return nil
		})
	}
	_ = workers.Wait()

	for _, result := range results {
		if result.unavailable {
			report.UnavailableSymbols = append(report.UnavailableSymbols, result.symbol)
			continue
		}
		if result.failed {
			report.Failed += len(groups[result.symbol]) - len(result.outcomes)
		}
		for _, outcome := range result.outcomes {
			switch outcome {
			case outcomeTriggered:
				report.Evaluated++
				report.Triggered++
			case outcomeAlreadyTriggered:
				report.Evaluated++
				report.AlreadyTriggered++
			case outcomeNotTriggered:
				report.Evaluated++
			case outcomeMalformed:
				report.Malformed++
			case outcomeFailed:
				report.Failed++
			}
		}
	}

	report.Duration = m.now().Sub(start)
	m.observer.RunCompleted(report)
	logger.Info(
		"alert monitor run complete",
		zap.Int("eligible", report.Eligible),
		zap.Int("symbols", report.Symbols),
		zap.Strings("unavailable_symbols", report.UnavailableSymbols),
		zap.Int("evaluated", report.Evaluated),
		zap.Int("triggered", report.Triggered),
		zap.Int("malformed", report.Malformed),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func (m *AlertMonitor) checkSymbol(ctx context.Context, logger *zap.Logger, symbol string, alerts []domain.Alert) (result groupResult) {
	result.symbol = symbol
	defer func() {
		if r := recover(); r != nil {
			logger.Error("symbol group panicked", zap.String("symbol", symbol), zap.Any("panic", r))
			result.failed = true
		}
	}()

	price, err := m.oracle.CurrentPrice(ctx, symbol)
	if err != nil {
		logger.Warn("price unavailable, skipping symbol", zap.String("symbol", symbol), zap.Int("alerts", len(alerts)), zap.Error(err))
		m.observer.PriceLookupFailed(symbol)
		result.unavailable = true
		return result
	}

	for _, alert := range alerts {
		result.outcomes = append(result.outcomes, m.checkAlert(ctx, logger, alert, price))
	}
	return result
}

func (m *AlertMonitor) checkAlert(ctx context.Context, logger *zap.Logger, alert domain.Alert, price decimal.Decimal) (outcome alertOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("alert evaluation panicked", zap.Uint("alert_id", alert.ID), zap.String("symbol", alert.Symbol), zap.Any("panic", r))
			outcome = outcomeFailed
		}
	}()

	triggered, err := Evaluate(alert.Condition, alert.TargetValue, price)
	if err != nil {
		logger.Warn("skipping malformed alert", zap.Uint("alert_id", alert.ID), zap.String("condition", string(alert.Condition)), zap.Error(err))
		return outcomeMalformed
	}
	if !triggered {
		return outcomeNotTriggered
	}

	result, err := m.TriggerAlert(ctx, alert, price)
	if err != nil {
		logger.Error("failed to trigger alert", zap.Uint("alert_id", alert.ID), zap.String("symbol", alert.Symbol), zap.Error(err))
		return outcomeFailed
	}
	switch result {
	case domain.MarkTriggered:
		return outcomeTriggered
	case domain.MarkAlreadyTriggered:
		return outcomeAlreadyTriggered
	default:
		return outcomeFailed
	}
}

// TriggerAlert claims the one-way transition and notifies only when this call
// won it, so overlapping runs cannot double-send.
func (m *AlertMonitor) TriggerAlert(ctx context.Context, alert domain.Alert, price decimal.Decimal) (domain.MarkResult, error) {
	at := m.now().UTC()
	market := m.oracle.Classify(alert.Symbol)
	message := RenderTriggerMessage(alert, price, market, at)

	result, err := m.alerts.MarkTriggered(ctx, alert.ID, message, at)
	if err != nil {
		return result, fmt.Errorf("mark alert %d triggered: %w", alert.ID, err)
	}
	switch result {
	case domain.MarkAlreadyTriggered:
		m.logger.Info("alert already triggered by another run", zap.Uint("alert_id", alert.ID))
		return result, nil
	case domain.MarkNotFound:
		m.logger.Warn("alert vanished before trigger", zap.Uint("alert_id", alert.ID))
		return result, nil
	}

	m.observer.AlertTriggered(market)
	delivery := m.dispatcher.Notify(ctx, alert.UserID, message)
	if !delivery.Delivered {
		m.observer.NotificationFailed()
		m.logger.Warn("alert triggered but notification not delivered", zap.Uint("alert_id", alert.ID), zap.Int64("telegram_user_id", alert.UserID), zap.Error(delivery.Err))
		return result, nil
	}

	m.logger.Info(
		"alert triggered",
		zap.Uint("alert_id", alert.ID),
		zap.Int64("telegram_user_id", alert.UserID),
		zap.String("symbol", alert.Symbol),
		zap.String("condition", string(alert.Condition)),
		zap.String("target", alert.TargetValue.String()),
		zap.String("price", price.String()),
	)
	return result, nil
}

func (m *AlertMonitor) PurgeTriggered(ctx context.Context) (int64, error) {
	cutoff := m.now().Add(-m.retention)
	removed, err := m.alerts.PurgeTriggeredBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge triggered alerts: %w", err)
	}
	m.logger.Info("purged triggered alerts", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
	return removed, nil
}
