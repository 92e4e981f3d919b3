package db

import (
	"context"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	model := mapAlertToModel(*alert)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	alert.ID = model.ID
	alert.CreatedAt = model.CreatedAt
	alert.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) SetActive(ctx context.Context, userID int64, alertID uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&alertModel{}).Where("id = ? AND user_id = ?", alertID, userID).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, userID int64, alertID uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", alertID, userID).Delete(&alertModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepository) ListEligible(ctx context.Context) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_triggered = ?", true, false).
		Order("symbol, id").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

// MarkTriggered flips is_triggered only while the alert is still active and
// untriggered, so exactly one concurrent caller observes MarkTriggered. An
// alert disabled after listing reports MarkAlreadyTriggered.
func (r *AlertRepository) MarkTriggered(ctx context.Context, alertID uint, message string, at time.Time) (domain.MarkResult, error) {
	result := r.db.WithContext(ctx).
		Model(&alertModel{}).
		Where("id = ? AND is_active = ? AND is_triggered = ?", alertID, true, false).
		Updates(map[string]interface{}{
			"is_triggered": true,
			"triggered_at": at,
			"message":      message,
		})
	if result.Error != nil {
		return domain.MarkNotFound, result.Error
	}
	if result.RowsAffected == 1 {
		return domain.MarkTriggered, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&alertModel{}).Where("id = ?", alertID).Count(&count).Error; err != nil {
		return domain.MarkNotFound, err
	}
	if count == 0 {
		return domain.MarkNotFound, nil
	}
	return domain.MarkAlreadyTriggered, nil
}

func (r *AlertRepository) PurgeTriggeredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("is_triggered = ? AND triggered_at < ?", true, cutoff).
		Delete(&alertModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func mapAlertsToDomain(models []alertModel) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alerts = append(alerts, domain.Alert{
			ID:          model.ID,
			UserID:      model.UserID,
			Symbol:      model.Symbol,
			Condition:   domain.Condition(model.Condition),
			TargetValue: model.TargetValue,
			IsActive:    model.IsActive,
			IsTriggered: model.IsTriggered,
			TriggeredAt: model.TriggeredAt,
			Message:     model.Message,
			CreatedAt:   model.CreatedAt,
			UpdatedAt:   model.UpdatedAt,
		})
	}
	return alerts
}

func mapAlertToModel(alert domain.Alert) alertModel {
	return alertModel{
		ID:          alert.ID,
		UserID:      alert.UserID,
		Symbol:      alert.Symbol,
		Condition:   string(alert.Condition),
		TargetValue: alert.TargetValue,
		IsActive:    alert.IsActive,
		IsTriggered: alert.IsTriggered,
		TriggeredAt: alert.TriggeredAt,
		Message:     alert.Message,
		CreatedAt:   alert.CreatedAt,
		UpdatedAt:   alert.UpdatedAt,
	}
}
