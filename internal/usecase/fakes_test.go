package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func newFakeUsers(ids ...int64) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]*domain.User)}
	for _, id := range ids {
		f.users[id] = &domain.User{ID: uint(len(f.users) + 1), TelegramUserID: id}
	}
	return f
}

func (f *fakeUsers) GetByTelegramID(_ context.Context, telegramUserID int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[telegramUserID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uint(len(f.users) + 1)
	copied := *user
	f.users[user.TelegramUserID] = &copied
	return nil
}

func (f *fakeUsers) Touch(_ context.Context, telegramUserID int64, username string, seenAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[telegramUserID]
	if !ok {
		return domain.ErrNotFound
	}
	user.Username = username
	user.LastSeenAt = &seenAt
	return nil
}

type fakeAlerts struct {
	mu      sync.Mutex
	nextID  uint
	alerts  map[uint]*domain.Alert
	listErr error
}

func newFakeAlerts(alerts ...domain.Alert) *fakeAlerts {
	f := &fakeAlerts{alerts: make(map[uint]*domain.Alert)}
	for _, alert := range alerts {
		alert := alert
		_ = f.Create(context.Background(), &alert)
	}
	return f
}

func (f *fakeAlerts) Create(_ context.Context, alert *domain.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if alert.ID == 0 {
		alert.ID = f.nextID
	}
	copied := *alert
	f.alerts[alert.ID] = &copied
	return nil
}

func (f *fakeAlerts) ListByUser(_ context.Context, userID int64) ([]domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Alert
	for _, alert := range f.alerts {
		if alert.UserID == userID {
			result = append(result, *alert)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeAlerts) SetActive(_ context.Context, userID int64, alertID uint, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert, ok := f.alerts[alertID]
	if !ok || alert.UserID != userID {
		return domain.ErrNotFound
	}
	alert.IsActive = active
	return nil
}

func (f *fakeAlerts) Delete(_ context.Context, userID int64, alertID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert, ok := f.alerts[alertID]
	if !ok || alert.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.alerts, alertID)
	return nil
}

func (f *fakeAlerts) ListEligible(context.Context) ([]domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []domain.Alert
	for _, alert := range f.alerts {
		if alert.Eligible() {
			result = append(result, *alert)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeAlerts) MarkTriggered(_ context.Context, alertID uint, message string, at time.Time) (domain.MarkResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert, ok := f.alerts[alertID]
	if !ok {
		return domain.MarkNotFound, nil
	}
	if alert.IsTriggered || !alert.IsActive {
		return domain.MarkAlreadyTriggered, nil
	}
	alert.IsTriggered = true
	alert.TriggeredAt = &at
	alert.Message = message
	return domain.MarkTriggered, nil
}

func (f *fakeAlerts) PurgeTriggeredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for id, alert := range f.alerts {
		if alert.IsTriggered && alert.TriggeredAt != nil && alert.TriggeredAt.Before(cutoff) {
			delete(f.alerts, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeAlerts) get(id uint) domain.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.alerts[id]
}

type fakeOracle struct {
	mu       sync.Mutex
	prices   map[string]domain.PriceData
	markets  map[string]domain.MarketType
	calls    map[string]int
	panicFor string
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		prices:  make(map[string]domain.PriceData),
		markets: make(map[string]domain.MarketType),
		calls:   make(map[string]int),
	}
}

func (f *fakeOracle) setPrice(symbol, price string, market domain.MarketType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	change := decimal.RequireFromString("1.5")
	f.prices[symbol] = domain.PriceData{Symbol: symbol, Price: decimal.RequireFromString(price), Change24h: &change}
	f.markets[symbol] = market
}

func (f *fakeOracle) removePrice(symbol string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.prices, symbol)
}

func (f *fakeOracle) callsFor(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

func (f *fakeOracle) Classify(symbol string) domain.MarketType {
	f.mu.Lock()
	defer f.mu.Unlock()
	if market, ok := f.markets[symbol]; ok {
		return market
	}
	return domain.MarketUnknown
}

func (f *fakeOracle) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	data, err := f.UniversalPriceData(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return data.Price, nil
}

func (f *fakeOracle) UniversalPriceData(_ context.Context, symbol string) (*domain.PriceData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[symbol]++
	if symbol == f.panicFor {
		panic("provider exploded")
	}
	data, ok := f.prices[symbol]
	if !ok {
		return nil, domain.ErrPriceUnavailable
	}
	return &data, nil
}

type sentMessage struct {
	UserID int64
	Text   string
}

type recordingTransport struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (r *recordingTransport) Send(_ context.Context, userID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMessage{UserID: userID, Text: text})
	return nil
}

func (r *recordingTransport) messages() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMessage(nil), r.sent...)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, userID int64, text string) error {
	args := m.Called(ctx, userID, text)
	return args.Error(0)
}
