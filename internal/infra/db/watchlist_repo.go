package db

import (
	"context"
	"errors"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) CountForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&watchlistModel{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *WatchlistRepository) Get(ctx context.Context, userID int64, symbol string) (*domain.WatchlistItem, error) {
	var model watchlistModel
	if err := r.db.WithContext(ctx).Where("user_id = ? AND symbol = ?", userID, symbol).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	item := mapWatchlistToDomain(model)
	return &item, nil
}

// Upsert inserts the item or, on (user_id, symbol) conflict, overwrites the
// classification, label and cached price. Thresholds are left untouched.
func (r *WatchlistRepository) Upsert(ctx context.Context, item *domain.WatchlistItem) error {
	model := mapWatchlistToModel(*item)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"market_type",
			"label",
			"last_price",
			"price_change_24h",
			"last_checked_at",
			"updated_at",
		}),
	}).Create(&model).Error
	if err != nil {
		return err
	}

	stored, err := r.Get(ctx, item.UserID, item.Symbol)
	if err != nil {
		return err
	}
	*item = *stored
	return nil
}

func (r *WatchlistRepository) Delete(ctx context.Context, userID int64, symbol string) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND symbol = ?", userID, symbol).Delete(&watchlistModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *WatchlistRepository) ListForUser(ctx context.Context, userID int64) ([]domain.WatchlistItem, error) {
	var models []watchlistModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("market_type, symbol").Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]domain.WatchlistItem, 0, len(models))
	for _, model := range models {
		items = append(items, mapWatchlistToDomain(model))
	}
	return items, nil
}

func (r *WatchlistRepository) UpdatePrice(ctx context.Context, userID int64, symbol string, data domain.PriceData, checkedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&watchlistModel{}).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Updates(map[string]interface{}{
			"last_price":       decimal.NewNullDecimal(data.Price),
			"price_change_24h": nullDecimal(data.Change24h),
			"last_checked_at":  checkedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WatchlistRepository) SetThresholds(ctx context.Context, userID int64, symbol string, above, below *decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&watchlistModel{}).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Updates(map[string]interface{}{
			"alert_above": nullDecimal(above),
			"alert_below": nullDecimal(below),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapWatchlistToDomain(model watchlistModel) domain.WatchlistItem {
	return domain.WatchlistItem{
		ID:             model.ID,
		UserID:         model.UserID,
		Symbol:         model.Symbol,
		MarketType:     domain.MarketType(model.MarketType),
		Label:          model.Label,
		LastPrice:      decimalPtr(model.LastPrice),
		PriceChange24h: decimalPtr(model.PriceChange24h),
		LastCheckedAt:  model.LastCheckedAt,
		AlertAbove:     decimalPtr(model.AlertAbove),
		AlertBelow:     decimalPtr(model.AlertBelow),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func mapWatchlistToModel(item domain.WatchlistItem) watchlistModel {
	return watchlistModel{
		ID:             item.ID,
		UserID:         item.UserID,
		Symbol:         item.Symbol,
		MarketType:     string(item.MarketType),
		Label:          item.Label,
		LastPrice:      nullDecimal(item.LastPrice),
		PriceChange24h: nullDecimal(item.PriceChange24h),
		LastCheckedAt:  item.LastCheckedAt,
		AlertAbove:     nullDecimal(item.AlertAbove),
		AlertBelow:     nullDecimal(item.AlertBelow),
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}
