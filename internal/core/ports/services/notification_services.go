package services

import (
	"context"

	"github.com/finflow/finflow_backend/internal/core/domain"
)

// TransactionNotifier records user-facing notifications for completed money
// movements. Notification is best-effort: it runs after the transaction has
// committed, and failures are logged without affecting the transaction.
type TransactionNotifier interface {
	// NotifyTransactionCompleted writes notifications for the parties of a
	// completed transaction. A transfer also notifies the destination owner.
	NotifyTransactionCompleted(ctx context.Context, txn domain.Transaction, destinationOwnerID string)
}

// NotificationSvcFacade defines read and update operations for notifications.
type NotificationSvcFacade interface {
	TransactionNotifier

	// ListNotifications retrieves a paginated page of the user's notifications,
	// newest first, with the current unread count.
	ListNotifications(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Notification, int, *string, error)

	// MarkRead marks one notification as read.
	MarkRead(ctx context.Context, userID string, notificationID string) error

	// MarkAllRead marks all of the user's notifications as read.
	MarkAllRead(ctx context.Context, userID string) error
}
