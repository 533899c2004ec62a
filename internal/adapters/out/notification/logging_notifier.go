// Package notification delivers courier push notifications.
package notification

import (
	"context"
	"errors"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

var ErrMissingPushToken = errors.New("courier has no push token")

// LoggingNotifier writes notifications to the log instead of a push
// provider. Push tokens are masked by the logger.
type LoggingNotifier struct {
	log *logger.Logger
}

var _ ports.NotificationService = (*LoggingNotifier)(nil)

func NewLoggingNotifier(log *logger.Logger) *LoggingNotifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &LoggingNotifier{log: log.With("component", "notifier")}
}

func (n *LoggingNotifier) SendOrderAssigned(ctx context.Context, pushToken string, notification ports.OrderAssignedNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if pushToken == "" {
		return ErrMissingPushToken
	}
	n.log.Info("order assigned notification",
		"push_token", pushToken,
		"package_id", notification.PackageID.String(),
		"pickup_address", notification.PickupAddress,
		"delivery_address", notification.DeliveryAddress,
		"customer_phone", notification.CustomerPhone,
		"delivery_start", notification.DeliveryStart,
		"delivery_end", notification.DeliveryEnd,
		"estimated_minutes", notification.EstimatedMinutes,
	)
	return nil
}

func (n *LoggingNotifier) SendDeliveryStatus(ctx context.Context, pushToken string, notification ports.DeliveryStatusNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if pushToken == "" {
		return ErrMissingPushToken
	}
	n.log.Info("delivery status notification",
		"push_token", pushToken,
		"package_id", notification.PackageID.String(),
		"message", notification.Message,
	)
	return nil
}
