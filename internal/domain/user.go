package domain

import "time"

type User struct {
	ID             uint
	TelegramUserID int64
	Username       string
	LastSeenAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
