package market

import (
	"testing"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		symbol string
		want   domain.MarketType
	}{
		{"BTC", domain.MarketCrypto},
		{"eth", domain.MarketCrypto},
		{"BTCUSDT", domain.MarketCrypto},
		{"SOL/USDT", domain.MarketCrypto},
		{"BTC-USD", domain.MarketCrypto},
		{"WIFUSDT", domain.MarketCrypto},
		{"EURUSD", domain.MarketForex},
		{"GBP/JPY", domain.MarketForex},
		{"USDCHF=X", domain.MarketForex},
		{"AAPL", domain.MarketStock},
		{"BRK.B", domain.MarketStock},
		{"USDT", domain.MarketStock},
		{"", domain.MarketUnknown},
		{"not a symbol", domain.MarketUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.symbol))
		})
	}
}

func TestQuoteSymbol(t *testing.T) {
	assert.Equal(t, "EURUSD=X", quoteSymbol("EURUSD"))
	assert.Equal(t, "GBPJPY=X", quoteSymbol("GBP/JPY"))
	assert.Equal(t, "USDCHF=X", quoteSymbol("USDCHF=X"))
	assert.Equal(t, "AAPL", quoteSymbol("AAPL"))
}
