package models

import (
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// DefaultLimit лимит выдачи по умолчанию
const DefaultLimit = 50

// ListNotificationsRequest запрос списка уведомлений
type ListNotificationsRequest struct {
	RequesterID string
	UserID      string
	UnreadOnly  bool
	Limit       uint64
}

// NotificationResponse уведомление пользователя
type NotificationResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ReferenceID *string   `json:"referenceId,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NotificationListResponse список уведомлений
type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Unread        int                     `json:"unread"`
}

// FromDomainNotificationList конвертирует список уведомлений
func FromDomainNotificationList(items []*domain.Notification) *NotificationListResponse {
	resp := &NotificationListResponse{Notifications: make([]*NotificationResponse, 0, len(items))}
	for _, n := range items {
		if !n.Read {
			resp.Unread++
		}
		resp.Notifications = append(resp.Notifications, &NotificationResponse{
			ID:          n.ID,
			UserID:      n.UserID,
			Type:        string(n.Kind),
			Title:       n.Title,
			Body:        n.Body,
			ReferenceID: n.ReferenceID,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		})
	}
	return resp
}
