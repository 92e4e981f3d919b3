package market

import (
	"strings"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/samber/lo"
)

var fiatCurrencies = lo.SliceToMap([]string{
	"USD", "EUR", "GBP", "JPY", "CHF", "AUD", "CAD", "NZD", "CNY", "CNH", "HKD",
	"SGD", "SEK", "NOK", "DKK", "PLN", "CZK", "HUF", "TRY", "ZAR", "MXN", "BRL",
	"INR", "KRW", "ILS", "THB",
}, func(code string) (string, struct{}) { return code, struct{}{} })

var cryptoAssets = lo.SliceToMap([]string{
	"BTC", "ETH", "BNB", "SOL", "XRP", "ADA", "DOGE", "TRX", "TON", "DOT", "MATIC",
	"POL", "LTC", "BCH", "AVAX", "LINK", "ATOM", "XLM", "UNI", "SHIB", "NEAR",
	"APT", "ARB", "OP", "PEPE", "SUI", "FIL", "ETC", "ICP", "HBAR", "INJ", "USDC",
}, func(code string) (string, struct{}) { return code, struct{}{} })

var pairSeparators = strings.NewReplacer("/", "", "-", "")

// Classify routes a symbol to a market. ISO currency pairs are forex, known
// crypto assets and USDT pairs are crypto, any other valid ticker is a stock.
func Classify(symbol string) domain.MarketType {
	normalized, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return domain.MarketUnknown
	}
	if strings.HasSuffix(normalized, "=X") {
		return domain.MarketForex
	}

	compact := pairSeparators.Replace(normalized)
	if isCurrencyPair(compact) {
		return domain.MarketForex
	}
	if _, ok := cryptoBase(compact); ok {
		return domain.MarketCrypto
	}
	return domain.MarketStock
}

// cryptoBase extracts the base asset from BTC, BTCUSDT, BTC/USDT or BTC-USD.
func cryptoBase(compact string) (string, bool) {
	if _, ok := cryptoAssets[compact]; ok {
		return compact, true
	}
	if base, ok := strings.CutSuffix(compact, "USDT"); ok && base != "" {
		return base, true
	}
	if base, ok := strings.CutSuffix(compact, "USD"); ok {
		if _, known := cryptoAssets[base]; known {
			return base, true
		}
	}
	return "", false
}

func isCurrencyPair(compact string) bool {
	if len(compact) != 6 {
		return false
	}
	_, base := fiatCurrencies[compact[:3]]
	_, quote := fiatCurrencies[compact[3:]]
	return base && quote
}

func forexPair(symbol string) string {
	return pairSeparators.Replace(strings.TrimSuffix(symbol, "=X"))
}
