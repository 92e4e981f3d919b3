package db

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type userModel struct {
	ID             uint   `gorm:"primaryKey"`
	TelegramUserID int64  `gorm:"uniqueIndex;not null"`
	Username       string `gorm:""`
	LastSeenAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (userModel) TableName() string { return "users" }

// Alerts are hard-deleted; retention purges rows, it does not hide them.
type alertModel struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      int64           `gorm:"index;not null"`
	Symbol      string          `gorm:"size:20;not null;index:idx_alerts_eligible,priority:3"`
	Condition   string          `gorm:"size:20;not null"`
	TargetValue decimal.Decimal `gorm:"type:numeric(38,18);not null"`
	IsActive    bool            `gorm:"not null;index:idx_alerts_eligible,priority:1"`
	IsTriggered bool            `gorm:"not null;index:idx_alerts_eligible,priority:2"`
	TriggeredAt *time.Time      `gorm:"index"`
	Message     string          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (alertModel) TableName() string { return "alerts" }

type watchlistModel struct {
	ID             uint                `gorm:"primaryKey"`
	UserID         int64               `gorm:"uniqueIndex:idx_watchlist_user_symbol,priority:1;not null"`
	Symbol         string              `gorm:"uniqueIndex:idx_watchlist_user_symbol,priority:2;size:20;not null"`
	MarketType     string              `gorm:"size:10;not null"`
	Label          string              `gorm:"size:100"`
	LastPrice      decimal.NullDecimal `gorm:"type:numeric(38,18)"`
	PriceChange24h decimal.NullDecimal `gorm:"column:price_change_24h;type:numeric(38,18)"`
	LastCheckedAt  *time.Time
	AlertAbove     decimal.NullDecimal `gorm:"type:numeric(38,18)"`
	AlertBelow     decimal.NullDecimal `gorm:"type:numeric(38,18)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (watchlistModel) TableName() string { return "watchlist_items" }

func nullDecimal(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*value)
}

func decimalPtr(value decimal.NullDecimal) *decimal.Decimal {
	if !value.Valid {
		return nil
	}
	d := value.Decimal
	return &d
}
