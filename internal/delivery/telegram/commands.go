package telegram

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const HelpText = `Commands:
/start - register
/help - show this help
/alert <SYMBOL> <condition> <target>
/alerts - list your alerts
/enable <alert_id>
/disable <alert_id>
/delalert <alert_id>
/price <SYMBOL>
/watch <SYMBOL> [label]
/unwatch <SYMBOL>
/watchlist - show tracked symbols
/watchalert <SYMBOL> <above|-> <below|->

Conditions: above, below, crosses_above, crosses_below.
above/below fire on a strict comparison, crosses_* also fire at the target.
Each alert fires once, then stays in /alerts as triggered.
Example:
/alert BTC above 70000
/alert EURUSD crosses_below 1.05
/watch AAPL long term
`

var ErrInvalidArguments = errors.New("invalid arguments")

const noThreshold = "-"

func ParseAlertArgs(args string) (symbol, condition, target string, err error) {
	parts := strings.Fields(args)
	if len(parts) != 3 {
		return "", "", "", ErrInvalidArguments
	}
	return parts[0], parts[1], parts[2], nil
}

func ParseSymbol(args string) (string, error) {
	parts := strings.Fields(args)
	if len(parts) != 1 {
		return "", ErrInvalidArguments
	}
	return parts[0], nil
}

// ParseWatchArgs splits "/watch SYMBOL free form label" into symbol and label.
func ParseWatchArgs(args string) (symbol, label string, err error) {
	trimmed := strings.TrimSpace(args)
	if trimmed == "" {
		return "", "", ErrInvalidArguments
	}
	symbol, label, _ = strings.Cut(trimmed, " ")
	return symbol, strings.TrimSpace(label), nil
}

// ParseWatchAlertArgs reads "SYMBOL above below"; "-" clears a side.
func ParseWatchAlertArgs(args string) (symbol string, above, below *decimal.Decimal, err error) {
	parts := strings.Fields(args)
	if len(parts) != 3 {
		return "", nil, nil, ErrInvalidArguments
	}
	if above, err = parseThreshold(parts[1]); err != nil {
		return "", nil, nil, err
	}
	if below, err = parseThreshold(parts[2]); err != nil {
		return "", nil, nil, err
	}
	return parts[0], above, below, nil
}

func parseThreshold(value string) (*decimal.Decimal, error) {
	if value == noThreshold {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil || !parsed.IsPositive() {
		return nil, ErrInvalidArguments
	}
	return &parsed, nil
}

func ParseAlertID(args string) (uint, error) {
	idStr := strings.TrimSpace(args)
	if idStr == "" {
		return 0, ErrInvalidArguments
	}
	value, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, ErrInvalidArguments
	}
	return uint(value), nil
}
