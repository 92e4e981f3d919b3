package usecase

import (
	"context"
	"errors"

	"github.com/NasaVasa/pricebot/internal/domain"
)

var ErrQuoteUnavailable = errors.New("quote unavailable")

type Quote struct {
	Market domain.MarketType
	Data   domain.PriceData
}

type QuoteUsecase struct {
	oracle domain.PriceOracle
}

func NewQuoteUsecase(oracle domain.PriceOracle) *QuoteUsecase {
	return &QuoteUsecase{oracle: oracle}
}

func (u *QuoteUsecase) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	normalized, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return nil, ErrInvalidSymbol
	}
	data, err := u.oracle.UniversalPriceData(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrPriceUnavailable) {
			return nil, ErrQuoteUnavailable
		}
		return nil, err
	}
	return &Quote{Market: u.oracle.Classify(normalized), Data: *data}, nil
}
