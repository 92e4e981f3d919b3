package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotRegistered = errors.New("user not registered")
	ErrInvalidSymbol     = errors.New("invalid symbol")
	ErrInvalidCondition  = errors.New("invalid condition")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrAlertNotFound     = errors.New("alert not found")
)

type AlertUsecase struct {
	users  domain.UserRepository
	alerts domain.AlertRepository
}

func NewAlertUsecase(users domain.UserRepository, alerts domain.AlertRepository) *AlertUsecase {
	return &AlertUsecase{users: users, alerts: alerts}
}

func (u *AlertUsecase) AddAlert(ctx context.Context, telegramUserID int64, symbol, condition, target string) (*domain.Alert, error) {
	if err := u.requireUser(ctx, telegramUserID); err != nil {
		return nil, err
	}

	normalizedSymbol, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return nil, ErrInvalidSymbol
	}

	parsedCondition, err := domain.ParseCondition(condition)
	if err != nil {
		return nil, ErrInvalidCondition
	}

	targetValue, err := decimal.NewFromString(strings.TrimSpace(target))
	if err != nil || !targetValue.IsPositive() {
		return nil, ErrInvalidTarget
	}

	alert := &domain.Alert{
		UserID:      telegramUserID,
		Symbol:      normalizedSymbol,
		Condition:   parsedCondition,
		TargetValue: targetValue,
		IsActive:    true,
	}
	if err := u.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (u *AlertUsecase) ListAlerts(ctx context.Context, telegramUserID int64) ([]domain.Alert, error) {
	if err := u.requireUser(ctx, telegramUserID); err != nil {
		return nil, err
	}
	return u.alerts.ListByUser(ctx, telegramUserID)
}

func (u *AlertUsecase) EnableAlert(ctx context.Context, telegramUserID int64, alertID uint) error {
	return u.setActive(ctx, telegramUserID, alertID, true)
}

func (u *AlertUsecase) DisableAlert(ctx context.Context, telegramUserID int64, alertID uint) error {
	return u.setActive(ctx, telegramUserID, alertID, false)
}

func (u *AlertUsecase) DeleteAlert(ctx context.Context, telegramUserID int64, alertID uint) error {
	if err := u.requireUser(ctx, telegramUserID); err != nil {
		return err
	}
	if err := u.alerts.Delete(ctx, telegramUserID, alertID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}

func (u *AlertUsecase) setActive(ctx context.Context, telegramUserID int64, alertID uint, active bool) error {
	if err := u.requireUser(ctx, telegramUserID); err != nil {
		return err
	}
	if err := u.alerts.SetActive(ctx, telegramUserID, alertID, active); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}

func (u *AlertUsecase) requireUser(ctx context.Context, telegramUserID int64) error {
	if _, err := u.users.GetByTelegramID(ctx, telegramUserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotRegistered
		}
		return err
	}
	return nil
}
