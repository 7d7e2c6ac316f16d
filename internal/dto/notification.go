package dto

import (
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
)

// NotificationResponse defines the API representation of a notification.
type NotificationResponse struct {
	NotificationID string    `json:"notificationId"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListNotificationsResponse wraps a page of notifications with the unread count
// and pagination token.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// ToNotificationResponse maps a domain notification to its API representation.
func ToNotificationResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           n.Type,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
	}
}

// ToListNotificationsResponse maps a page of domain notifications to the list response.
func ToListNotificationsResponse(ns []domain.Notification, unread int, nextToken *string) ListNotificationsResponse {
	resp := ListNotificationsResponse{
		Notifications: make([]NotificationResponse, len(ns)),
		UnreadCount:   unread,
		NextToken:     nextToken,
	}
	for i, n := range ns {
		resp.Notifications[i] = ToNotificationResponse(n)
	}
	return resp
}
