package equipment

import "errors"

var (
	// ErrEquipmentNotFound возвращается, когда техника не найдена
	ErrEquipmentNotFound = errors.New("equipment not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец техники
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
