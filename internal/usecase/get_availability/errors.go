package get_availability

import "errors"

var (
	// ErrEquipmentNotFound возвращается, когда техника не найдена
	ErrEquipmentNotFound = errors.New("get_availability: equipment not found")

	// ErrInvalidRange возвращается при некорректном периоде запроса
	ErrInvalidRange = errors.New("get_availability: invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
