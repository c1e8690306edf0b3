package decide_booking

import (
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// Decision решение владельца по бронированию
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// IsValid проверяет допустимость решения
func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// TargetStatus статус бронирования после решения
func (d Decision) TargetStatus() domain.BookingStatus {
	if d == DecisionApprove {
		return domain.StatusApproved
	}
	return domain.StatusRejected
}

// Request модель запроса на решение по бронированию
type Request struct {
	BookingID string   // ID бронирования
	DeciderID string   // ID пользователя, принимающего решение
	Decision  Decision // approve | reject
}

// Response модель ответа с обновленным бронированием
type Response struct {
	ID          string
	EquipmentID string
	RenterID    string
	StartDate   time.Time
	EndDate     time.Time
	TotalAmount float64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
