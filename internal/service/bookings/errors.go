package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrEquipmentNotFound возвращается, когда техника не найдена
	ErrEquipmentNotFound = errors.New("equipment not found")

	// ErrUnauthorized возвращается, когда у пользователя нет прав на операцию
	ErrUnauthorized = errors.New("access denied")

	// ErrInvalidStateTransition возвращается, когда бронирование нельзя перевести в новый статус
	ErrInvalidStateTransition = errors.New("booking is not pending")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrStore возвращается при ошибках хранилища
	ErrStore = errors.New("service: store error")
)
