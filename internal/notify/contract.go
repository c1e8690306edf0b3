package notify

import (
	"context"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
}

// EventPublisher интерфейс публикации событий уведомлений
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// ProfileClient интерфейс клиента сервиса профилей
type ProfileClient interface {
	GetDisplayName(ctx context.Context, userID string) string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
