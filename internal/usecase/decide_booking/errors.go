package decide_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("decide_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("decide_booking: booking not found")

	// ErrUnauthorized возвращается, когда решение принимает не владелец техники
	ErrUnauthorized = errors.New("decide_booking: only the equipment owner can decide")

	// ErrInvalidStateTransition возвращается, когда бронирование уже не в статусе pending
	ErrInvalidStateTransition = errors.New("decide_booking: booking is not pending")

	// ErrOverlapConflict возвращается при одобрении, если даты пересекаются с подтвержденным бронированием
	ErrOverlapConflict = errors.New("decide_booking: dates overlap an approved booking")

	// ErrStore возвращается при ошибках хранилища
	ErrStore = errors.New("decide_booking: store error")
)
