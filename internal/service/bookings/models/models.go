package models

import (
	"errors"
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования арендатором
type CancelBookingRequest struct {
	UserID string `json:"userId"`
}

// GetUserBookingsRequest запрос на получение бронирований арендатора
type GetUserBookingsRequest struct {
	UserID string  `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetEquipmentBookingsRequest запрос владельца на получение бронирований техники
type GetEquipmentBookingsRequest struct {
	UserID      string  `json:"userId"`
	EquipmentID string  `json:"equipmentId"`
	Status      *string `json:"status,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          string    `json:"id"`
	EquipmentID string    `json:"equipmentId"`
	RenterID    string    `json:"renterId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	TotalAmount float64   `json:"totalAmount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:          b.ID,
		EquipmentID: b.EquipmentID,
		RenterID:    b.RenterID,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		TotalAmount: b.TotalAmount,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в статус бронирования
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ToStatusFilter конвертирует опциональный статус в список для фильтра
func ToStatusFilter(status *string) ([]domain.BookingStatus, error) {
	if status == nil || *status == "" {
		return nil, nil
	}
	s, err := ToDomainBookingStatus(*status)
	if err != nil {
		return nil, err
	}
	return []domain.BookingStatus{s}, nil
}
