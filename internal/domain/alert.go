package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnknownCondition = errors.New("unknown condition")

type Condition string

const (
	ConditionAbove        Condition = "above"
	ConditionBelow        Condition = "below"
	ConditionCrossesAbove Condition = "crosses_above"
	ConditionCrossesBelow Condition = "crosses_below"
)

var conditionPhrases = map[Condition]string{
	ConditionAbove:        "went above",
	ConditionBelow:        "went below",
	ConditionCrossesAbove: "crossed above",
	ConditionCrossesBelow: "crossed below",
}

func ParseCondition(input string) (Condition, error) {
	condition := Condition(normalizeConditionInput(input))
	if !condition.Valid() {
		return "", ErrUnknownCondition
	}
	return condition, nil
}

func (c Condition) Valid() bool {
	_, ok := conditionPhrases[c]
	return ok
}

// Phrase is the past-tense wording used in trigger notifications.
func (c Condition) Phrase() string {
	if phrase, ok := conditionPhrases[c]; ok {
		return phrase
	}
	return string(c)
}

type Alert struct {
	ID          uint
	UserID      int64
	Symbol      string
	Condition   Condition
	TargetValue decimal.Decimal
	IsActive    bool
	IsTriggered bool
	TriggeredAt *time.Time
	Message     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a Alert) Eligible() bool {
	return a.IsActive && !a.IsTriggered
}

type MarkResult int

const (
	MarkTriggered MarkResult = iota
	MarkAlreadyTriggered
	MarkNotFound
)

func (r MarkResult) String() string {
	switch r {
	case MarkTriggered:
		return "triggered"
	case MarkAlreadyTriggered:
		return "already_triggered"
	case MarkNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
