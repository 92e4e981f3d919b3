package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
)

type UserUsecase struct {
	users domain.UserRepository
	now   func() time.Time
}

func NewUserUsecase(users domain.UserRepository) *UserUsecase {
	return &UserUsecase{users: users, now: time.Now}
}

// StartOrGetUser registers a Telegram user on first contact and refreshes
// username and last-seen on every later one.
func (u *UserUsecase) StartOrGetUser(ctx context.Context, telegramUserID int64, username string) (*domain.User, error) {
	seenAt := u.now().UTC()
	user, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err == nil {
		if err := u.users.Touch(ctx, telegramUserID, username, seenAt); err != nil {
			return nil, err
		}
		user.Username = username
		user.LastSeenAt = &seenAt
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	newUser := &domain.User{
		TelegramUserID: telegramUserID,
		Username:       username,
		LastSeenAt:     &seenAt,
	}
	if err := u.users.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}
