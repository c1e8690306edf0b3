package get_availability

import (
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// DefaultHorizonDays период календаря, если окно доступности открыто
const DefaultHorizonDays = 90

// Request модель запроса календаря доступности
type Request struct {
	EquipmentID string     // ID техники
	From        *time.Time // Начало периода (по умолчанию сегодня или начало окна доступности)
	To          *time.Time // Конец периода (по умолчанию конец окна или From + DefaultHorizonDays)
}

// Response модель календаря доступности
type Response struct {
	EquipmentID string
	From        time.Time
	To          time.Time
	PriceType   domain.PriceType
	RentalPrice float64
	Blocked     []BlockedRange // Занятые периоды (pending и approved)
	Free        []DateRange    // Свободные периоды внутри окна доступности
}

// DateRange диапазон дат включительно
type DateRange struct {
	Start time.Time
	End   time.Time
}

// BlockedRange занятый бронированием диапазон
type BlockedRange struct {
	DateRange
	Status domain.BookingStatus
}
