package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// OrderAssignedNotification tells a courier about a newly assigned package.
type OrderAssignedNotification struct {
	PackageID        kernel.UUID
	PickupAddress    string
	PickupLocation   kernel.Coordinates
	DeliveryAddress  string
	DeliveryLocation kernel.Coordinates
	CustomerPhone    string
	DeliveryStart    time.Time
	DeliveryEnd      time.Time
	EstimatedMinutes float64
}

type DeliveryStatusNotification struct {
	PackageID kernel.UUID
	Message   string
}

// NotificationService sends push notifications to couriers. Failures are
// logged by callers and never abort a command.
type NotificationService interface {
	SendOrderAssigned(ctx context.Context, pushToken string, notification OrderAssignedNotification) error
	SendDeliveryStatus(ctx context.Context, pushToken string, notification DeliveryStatusNotification) error
}
