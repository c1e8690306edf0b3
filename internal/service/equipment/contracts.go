package equipment

import (
	"context"
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// EquipmentRepository интерфейс репозитория техники
type EquipmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Equipment, error)
	UpdateAvailability(ctx context.Context, id string, start, end *time.Time, price float64, priceType domain.PriceType) (*domain.Equipment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
