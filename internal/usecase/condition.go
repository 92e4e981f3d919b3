package usecase

import (
	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/shopspring/decimal"
)

// Evaluate reports whether current satisfies condition against target.
// above/below are strict, crosses_* include the boundary so a tick landing
// exactly on the target between polls still fires.
func Evaluate(condition domain.Condition, target, current decimal.Decimal) (bool, error) {
	cmp := current.Cmp(target)
	switch condition {
	case domain.ConditionAbove:
		return cmp > 0, nil
	case domain.ConditionBelow:
		return cmp < 0, nil
	case domain.ConditionCrossesAbove:
		return cmp >= 0, nil
	case domain.ConditionCrossesBelow:
		return cmp <= 0, nil
	default:
		return false, domain.ErrUnknownCondition
	}
}
