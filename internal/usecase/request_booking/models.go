package request_booking

import "time"

// Request модель запроса на бронирование техники
type Request struct {
	EquipmentID string    // ID техники
	RenterID    string    // ID арендатора
	StartDate   time.Time // Дата начала (включительно)
	EndDate     time.Time // Дата окончания (включительно)
	Hours       *float64  // Количество часов, обязательно для почасовой аренды
}

// Response модель ответа с созданным бронированием
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
