package notifications

import (
	"context"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit uint64) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
