package domain

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidSymbol = errors.New("invalid symbol")

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9./=^-]{0,19}$`)

// NormalizeSymbol upper-cases and trims a user supplied instrument identifier.
func NormalizeSymbol(input string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input))
	if !symbolPattern.MatchString(symbol) {
		return "", ErrInvalidSymbol
	}
	return symbol, nil
}

func normalizeConditionInput(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	return strings.ReplaceAll(normalized, "-", "_")
}
