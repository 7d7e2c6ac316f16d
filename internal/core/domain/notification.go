package domain

import "time"

// Notification is an append-only record emitted after a financial operation
// commits. It is not part of the financial invariants; emission is best-effort.
type Notification struct {
	NotificationID string    `json:"notificationID"`
	UserID         string    `json:"userID"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"` // e.g. TRANSACTION, BULK
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}
