package request_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("request_booking: invalid input data")

	// ErrInvalidDateRange возвращается, когда дата начала позже даты окончания
	ErrInvalidDateRange = errors.New("request_booking: start date is after end date")

	// ErrBookingTooLong возвращается, когда период аренды длиннее допустимого
	ErrBookingTooLong = errors.New("request_booking: booking period is too long")

	// ErrEquipmentNotFound возвращается, когда техника не найдена
	ErrEquipmentNotFound = errors.New("request_booking: equipment not found")

	// ErrSelfBookingForbidden возвращается при попытке арендовать собственную технику
	ErrSelfBookingForbidden = errors.New("request_booking: owner cannot book own equipment")

	// ErrOutOfAvailabilityWindow возвращается, когда даты выходят за окно доступности
	ErrOutOfAvailabilityWindow = errors.New("request_booking: dates are outside the availability window")

	// ErrInvalidHours возвращается при почасовой аренде с неположительным числом часов
	ErrInvalidHours = errors.New("request_booking: hours must be positive for per-hour equipment")

	// ErrOverlapConflict возвращается, когда даты пересекаются с ожидающим или подтвержденным бронированием
	ErrOverlapConflict = errors.New("request_booking: dates overlap an existing booking")

	// ErrStore возвращается при ошибках хранилища
	ErrStore = errors.New("request_booking: store error")
)
