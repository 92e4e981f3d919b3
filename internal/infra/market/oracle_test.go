package market

import (
	"context"
	"errors"
	"testing"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	prices map[string]string
	err    error
	calls  []string
}

func (s *stubSource) Fetch(_ context.Context, symbol string) (*domain.PriceData, error) {
	s.calls = append(s.calls, symbol)
	if s.err != nil {
		return nil, s.err
	}
	price, ok := s.prices[symbol]
	if !ok {
		return nil, ErrSymbolNotFound
	}
	return &domain.PriceData{Price: decimal.RequireFromString(price)}, nil
}

func TestOracleRoutesByMarket(t *testing.T) {
	crypto := &stubSource{prices: map[string]string{"BTC": "64000"}}
	quotes := &stubSource{prices: map[string]string{"AAPL": "187.5", "EURUSD": "1.08"}}
	oracle := NewOracle(crypto, quotes, zap.NewNop())

	price, err := oracle.CurrentPrice(context.Background(), "BTC")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(64000)))

	data, err := oracle.UniversalPriceData(context.Background(), "EURUSD")
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", data.Symbol)

	_, err = oracle.CurrentPrice(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, []string{"BTC"}, crypto.calls)
	assert.Equal(t, []string{"EURUSD", "AAPL"}, quotes.calls)
}

func TestOracleWrapsFailuresAsUnavailable(t *testing.T) {
	crypto := &stubSource{err: errors.New("connection reset")}
	quotes := &stubSource{prices: map[string]string{"ZERO": "0"}}
	oracle := NewOracle(crypto, quotes, zap.NewNop())

	_, err := oracle.CurrentPrice(context.Background(), "ETH")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)

	_, err = oracle.CurrentPrice(context.Background(), "ZERO")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)

	_, err = oracle.CurrentPrice(context.Background(), "MISSING")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = oracle.UniversalPriceData(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}
