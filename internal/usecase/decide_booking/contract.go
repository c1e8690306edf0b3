package decide_booking

import (
	"context"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error)
}

// EquipmentRepository интерфейс репозитория техники
type EquipmentRepository interface {
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Equipment, error)
}

// Notifier best-effort отправка уведомлений
type Notifier interface {
	BookingDecided(ctx context.Context, equipment *domain.Equipment, booking *domain.Booking)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик решений по бронированиям (nil допустим)
type Metrics interface {
	IncBookingDecision(decision, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
