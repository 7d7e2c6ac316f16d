package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
	"github.com/google/uuid"
)

const (
	notificationTypeTransaction = "TRANSACTION"
)

// notificationServiceImpl implements the NotificationSvcFacade interface
type notificationServiceImpl struct {
	BaseService
	notificationRepo portsrepo.NotificationRepositoryFacade
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo portsrepo.NotificationRepositoryFacade) portssvc.NotificationSvcFacade {
	return &notificationServiceImpl{notificationRepo: repo}
}

// Ensure notificationServiceImpl implements the NotificationSvcFacade interface
var _ portssvc.NotificationSvcFacade = (*notificationServiceImpl)(nil)

// NotifyTransactionCompleted writes notifications for the parties of a
// completed transaction. It runs after the transaction has committed; a
// failure here is logged and never propagated back to the caller.
func (s *notificationServiceImpl) NotifyTransactionCompleted(ctx context.Context, txn domain.Transaction, destinationOwnerID string) {
	now := time.Now()

	var title, message string
	switch txn.Type {
	case domain.Deposit:
		title = "Deposit completed"
		message = fmt.Sprintf("Your deposit of %s %s is complete. Reference: %s", txn.Amount.StringFixed(2), txn.CurrencyCode, txn.Reference)
	case domain.Withdrawal:
		title = "Withdrawal completed"
		message = fmt.Sprintf("Your withdrawal of %s %s is complete. Reference: %s", txn.Amount.StringFixed(2), txn.CurrencyCode, txn.Reference)
	case domain.Transfer:
		title = "Transfer sent"
		message = fmt.Sprintf("Your transfer of %s %s has been sent. Reference: %s", txn.Amount.StringFixed(2), txn.CurrencyCode, txn.Reference)
	case domain.Payment:
		title = "Payment completed"
		message = fmt.Sprintf("Your payment of %s %s is complete. Reference: %s", txn.Amount.StringFixed(2), txn.CurrencyCode, txn.Reference)
		if txn.Metadata != nil && txn.Metadata.Recipient != nil {
			message = fmt.Sprintf("Your payment of %s %s to %s is complete. Reference: %s",
				txn.Amount.StringFixed(2), txn.CurrencyCode, txn.Metadata.Recipient.Name, txn.Reference)
		}
	default:
		title = "Transaction completed"
		message = fmt.Sprintf("Your transaction of %s %s is complete. Reference: %s", txn.Amount.StringFixed(2), txn.CurrencyCode, txn.Reference)
	}

	s.save(ctx, domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         txn.UserID,
		Title:          title,
		Message:        message,
		Type:           notificationTypeTransaction,
		CreatedAt:      now,
	})

	if txn.Type == domain.Transfer && destinationOwnerID != "" && destinationOwnerID != txn.UserID {
		s.save(ctx, domain.Notification{
			NotificationID: uuid.NewString(),
			UserID:         destinationOwnerID,
			Title:          "Money received",
			Message:        fmt.Sprintf("You received a transfer of %s %s. Reference: %s", txn.Amount.StringFixed(2), txn.CurrencyCode, txn.Reference),
			Type:           notificationTypeTransaction,
			CreatedAt:      now,
		})
	}
}

func (s *notificationServiceImpl) save(ctx context.Context, n domain.Notification) {
	if err := s.notificationRepo.SaveNotification(ctx, n); err != nil {
		s.LogError(ctx, err, "Failed to save notification",
			slog.String("user_id", n.UserID),
			slog.String("title", n.Title))
	}
}

// ListNotifications retrieves a page of the user's notifications with the
// current unread count.
func (s *notificationServiceImpl) ListNotifications(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Notification, int, *string, error) {
	notifications, token, err := s.notificationRepo.ListNotificationsByUser(ctx, userID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list notifications", slog.String("user_id", userID))
		return nil, 0, nil, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count unread notifications", slog.String("user_id", userID))
		return nil, 0, nil, err
	}
	return notifications, unread, token, nil
}

// MarkRead marks one notification as read.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID string, notificationID string) error {
	return s.notificationRepo.MarkNotificationRead(ctx, notificationID, userID)
}

// MarkAllRead marks all of the user's notifications as read.
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllNotificationsRead(ctx, userID)
}
