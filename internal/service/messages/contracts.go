package messages

import (
	"context"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// MessageRepository интерфейс репозитория сообщений
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)
	ListByEquipment(ctx context.Context, equipmentID, participantID string) ([]*domain.ChatMessage, error)
}

// EquipmentRepository интерфейс репозитория техники
type EquipmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
}

// ChangePublisher публикует изменения сообщений в канал realtime.
// Для бэкенда postgres изменения публикует триггер, поэтому используется no-op.
type ChangePublisher interface {
	PublishChange(ctx context.Context, change domain.MessageChange) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
