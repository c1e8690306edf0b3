package chat

import (
	"context"
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/infra/realtime"
)

// Store удаленное хранилище сообщений
type Store interface {
	ListByEquipment(ctx context.Context, equipmentID, participantID string) ([]*domain.ChatMessage, error)
	Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)
}

// ChangeFeed канал push-уведомлений об изменениях сообщений по технике
type ChangeFeed interface {
	Subscribe(ctx context.Context, equipmentID string, handler realtime.Handler) (*realtime.Subscription, error)
}

// Subscription освобождаемая подписка на изменения
type Subscription interface {
	Close() error
}

// Metrics счетчики доставки сообщений (nil допустим)
type Metrics interface {
	IncChatDelivery(kind, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
