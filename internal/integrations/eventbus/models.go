package eventbus

import (
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// RoutingKeyPrefix префикс ключей маршрутизации уведомлений
const RoutingKeyPrefix = "notification."

// NotificationEvent событие о созданном уведомлении для воркеров push-доставки
type NotificationEvent struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Kind           string    `json:"kind"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	ReferenceID    *string   `json:"reference_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewNotificationEvent строит событие из уведомления
func NewNotificationEvent(n *domain.Notification) NotificationEvent {
	return NotificationEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Kind:           string(n.Kind),
		Title:          n.Title,
		Body:           n.Body,
		ReferenceID:    n.ReferenceID,
		CreatedAt:      n.CreatedAt,
	}
}

// RoutingKey ключ маршрутизации для вида уведомления, например notification.booking_approved
func RoutingKey(kind domain.NotificationKind) string {
	return RoutingKeyPrefix + string(kind)
}
