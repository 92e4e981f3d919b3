package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/NasaVasa/pricebot/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

var marketOrder = []domain.MarketType{domain.MarketCrypto, domain.MarketStock, domain.MarketForex}

var marketTitles = map[domain.MarketType]string{
	domain.MarketCrypto: "Crypto",
	domain.MarketStock:  "Stocks",
	domain.MarketForex:  "Forex",
}

func formatPrice(market domain.MarketType, price decimal.Decimal) string {
	return price.StringFixed(usecase.PriceDecimals(market, price))
}

func formatChange(change *decimal.Decimal) string {
	if change == nil {
		return "n/a"
	}
	return usecase.FormatSigned(*change, 2) + "%"
}

func formatQuote(quote *usecase.Quote) string {
	return fmt.Sprintf(
		"%s *%s*\nPrice: `%s`\n24h: `%s`",
		quote.Market.Icon(),
		quote.Data.Symbol,
		formatPrice(quote.Market, quote.Data.Price),
		formatChange(quote.Data.Change24h),
	)
}

func formatWatchlist(items []domain.WatchlistItem, now time.Time) string {
	if len(items) == 0 {
		return "Your watchlist is empty. Use /watch <SYMBOL> to add one."
	}

	grouped := make(map[domain.MarketType][]domain.WatchlistItem, len(marketOrder))
	for _, item := range items {
		grouped[item.MarketType] = append(grouped[item.MarketType], item)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("👀 *Watchlist* (%d/%d)\n", len(items), domain.MaxWatchlistItems))
	for _, market := range marketOrder {
		group := grouped[market]
		if len(group) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("\n%s *%s*\n", market.Icon(), marketTitles[market]))
		for _, item := range group {
			builder.WriteString(formatWatchlistItem(item, now))
		}
	}
	return builder.String()
}

func formatWatchlistItem(item domain.WatchlistItem, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("• *" + item.Symbol + "*")
	if item.LastPrice != nil {
		builder.WriteString(fmt.Sprintf(" `%s` (%s)", formatPrice(item.MarketType, *item.LastPrice), formatChange(item.PriceChange24h)))
	} else {
		builder.WriteString(" price n/a")
	}
	if item.LastCheckedAt != nil && !item.Fresh(now) {
		builder.WriteString(fmt.Sprintf(" _as of %s UTC_", item.LastCheckedAt.UTC().Format("15:04")))
	}
	if item.Label != "" {
		builder.WriteString(" - " + tgbotapi.EscapeText(tgbotapi.ModeMarkdown, item.Label))
	}
	builder.WriteString("\n")

	if item.AlertAbove != nil || item.AlertBelow != nil {
		var thresholds []string
		if item.AlertAbove != nil {
			thresholds = append(thresholds, "⬆ "+item.AlertAbove.String())
		}
		if item.AlertBelow != nil {
			thresholds = append(thresholds, "⬇ "+item.AlertBelow.String())
		}
		builder.WriteString("   " + strings.Join(thresholds, "  ") + "\n")
	}
	return builder.String()
}

func formatAlertList(alerts []domain.Alert) string {
	var builder strings.Builder
	builder.WriteString("Your alerts:\n")
	for _, alert := range alerts {
		builder.WriteString(fmt.Sprintf("#%d [%s] %s %s %s\n", alert.ID, alertStatus(alert), alert.Symbol, alert.Condition, alert.TargetValue.String()))
	}
	return builder.String()
}

func alertStatus(alert domain.Alert) string {
	switch {
	case alert.IsTriggered && alert.TriggeredAt != nil:
		return "triggered " + alert.TriggeredAt.UTC().Format("2006-01-02 15:04")
	case alert.IsTriggered:
		return "triggered"
	case alert.IsActive:
		return "active"
	default:
		return "disabled"
	}
}
