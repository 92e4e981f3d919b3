package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrSymbolNotFound = errors.New("symbol not found")

var hundred = decimal.NewFromInt(100)

// QuoteClient reads equity and forex quotes from a Yahoo-compatible chart API.
type QuoteClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewQuoteClient(baseURL string, timeout time.Duration, logger *zap.Logger) *QuoteClient {
	return &QuoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *QuoteClient) Fetch(ctx context.Context, symbol string) (*domain.PriceData, error) {
	providerSymbol := quoteSymbol(symbol)
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(providerSymbol))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", "Mozilla/5.0 (compatible; pricebot)")

	start := time.Now()
	c.logger.Debug("quote request start", zap.String("symbol", symbol), zap.String("url", endpoint))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Warn("quote request failed", zap.String("symbol", symbol), zap.String("url", endpoint), zap.Error(err))
		return nil, err
	}
	defer response.Body.Close()

	c.logger.Debug(
		"quote request complete",
		zap.String("symbol", symbol),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, providerSymbol)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("quote error: status %d", response.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("quote error: %s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, providerSymbol)
	}

	meta := payload.Chart.Result[0].Meta
	if !meta.RegularMarketPrice.Valid {
		return nil, fmt.Errorf("quote for %s has no market price", providerSymbol)
	}

	data := &domain.PriceData{Symbol: symbol, Price: meta.RegularMarketPrice.Decimal}
	if previous, ok := meta.previousClose(); ok {
		change := data.Price.Sub(previous).Mul(hundred).Div(previous).Round(4)
		data.Change24h = &change
	}
	return data, nil
}

// quoteSymbol maps a normalized symbol onto the chart API's naming, where
// currency pairs carry an "=X" suffix.
func quoteSymbol(symbol string) string {
	if Classify(symbol) != domain.MarketForex || strings.HasSuffix(symbol, "=X") {
		return symbol
	}
	return forexPair(symbol) + "=X"
}
