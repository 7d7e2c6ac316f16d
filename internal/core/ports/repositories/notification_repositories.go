package repositories

import (
	"context"

	"github.com/finflow/finflow_backend/internal/core/domain"
)

// NotificationReader defines read operations for notification data
type NotificationReader interface {
	// ListNotificationsByUser retrieves a user's notifications, newest first, using
	// token-based pagination.
	ListNotificationsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Notification, *string, error)

	// CountUnread returns the number of unread notifications for a user.
	CountUnread(ctx context.Context, userID string) (int, error)
}

// NotificationWriter defines write operations for notification data
type NotificationWriter interface {
	// SaveNotification persists a new notification.
	SaveNotification(ctx context.Context, notification domain.Notification) error

	// MarkNotificationRead marks a single notification as read.
	MarkNotificationRead(ctx context.Context, notificationID string, userID string) error

	// MarkAllNotificationsRead marks every unread notification of a user as read.
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// NotificationRepositoryFacade combines all notification-related repository interfaces
type NotificationRepositoryFacade interface {
	NotificationReader
	NotificationWriter
}
