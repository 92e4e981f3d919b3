package market

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta chartMeta `json:"meta"`
}

type chartMeta struct {
	Symbol             string          `json:"symbol"`
	Currency           string          `json:"currency"`
	RegularMarketPrice NullableDecimal `json:"regularMarketPrice"`
	ChartPreviousClose NullableDecimal `json:"chartPreviousClose"`
	PreviousClose      NullableDecimal `json:"previousClose"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// NullableDecimal accepts JSON numbers, quoted numbers and null.
type NullableDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (n *NullableDecimal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) == 0 {
		n.Valid = false
		return nil
	}
	if trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		trimmed = strings.Trim(trimmed, "\"")
	}
	if trimmed == "" {
		n.Valid = false
		return nil
	}
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		n.Valid = false
		return err
	}
	n.Decimal = dec
	n.Valid = true
	return nil
}

func (m chartMeta) previousClose() (decimal.Decimal, bool) {
	if m.ChartPreviousClose.Valid && !m.ChartPreviousClose.Decimal.IsZero() {
		return m.ChartPreviousClose.Decimal, true
	}
	if m.PreviousClose.Valid && !m.PreviousClose.Decimal.IsZero() {
		return m.PreviousClose.Decimal, true
	}
	return decimal.Zero, false
}
