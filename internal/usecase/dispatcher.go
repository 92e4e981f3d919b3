package usecase

import (
	"context"

	"go.uber.org/zap"
)

type NotificationTransport interface {
	Send(ctx context.Context, userID int64, text string) error
}

type DeliveryResult struct {
	Delivered bool
	Err       error
}

// NotificationDispatcher hands rendered messages to the transport. Failures
// are logged and reported, never retried here.
type NotificationDispatcher struct {
	transport NotificationTransport
	logger    *zap.Logger
}

func NewNotificationDispatcher(transport NotificationTransport, logger *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{transport: transport, logger: logger}
}

func (d *NotificationDispatcher) Notify(ctx context.Context, userID int64, text string) DeliveryResult {
	if err := d.transport.Send(ctx, userID, text); err != nil {
		d.logger.Warn("notification send failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
		return DeliveryResult{Err: err}
	}
	return DeliveryResult{Delivered: true}
}
