package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceDecimals selects display precision: sub-dollar crypto needs 8 places.
func PriceDecimals(market domain.MarketType, price decimal.Decimal) int32 {
	if market == domain.MarketCrypto && price.LessThan(decimal.NewFromInt(1)) {
		return 8
	}
	return 2
}

func FormatSigned(value decimal.Decimal, places int32) string {
	rounded := value.Round(places)
	if rounded.IsNegative() {
		return rounded.StringFixed(places)
	}
	return "+" + rounded.StringFixed(places)
}

func PercentChange(from, to decimal.Decimal) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return to.Sub(from).Mul(hundred).Div(from)
}

func RenderTriggerMessage(alert domain.Alert, current decimal.Decimal, market domain.MarketType, at time.Time) string {
	places := PriceDecimals(market, current)
	diff := current.Sub(alert.TargetValue)
	diffPercent := PercentChange(alert.TargetValue, current)

	var builder strings.Builder
	builder.WriteString("🔔 *Price Alert Triggered*\n\n")
	builder.WriteString(fmt.Sprintf("%s *%s* %s *%s*\n\n", market.Icon(), alert.Symbol, alert.Condition.Phrase(), alert.TargetValue.StringFixed(places)))
	builder.WriteString(fmt.Sprintf("Target: `%s`\n", alert.TargetValue.StringFixed(places)))
	builder.WriteString(fmt.Sprintf("Current: `%s`\n", current.StringFixed(places)))
	builder.WriteString(fmt.Sprintf("Difference: `%s (%s%%)`\n\n", FormatSigned(diff, places), FormatSigned(diffPercent, 2)))
	builder.WriteString(fmt.Sprintf("Alert ID: `%d`\n", alert.ID))
	builder.WriteString(fmt.Sprintf("_Triggered at %s UTC_", at.UTC().Format("2006-01-02 15:04:05")))
	return builder.String()
}
