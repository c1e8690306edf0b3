package messages

import "errors"

var (
	// ErrEquipmentNotFound возвращается, когда техника не найдена
	ErrEquipmentNotFound = errors.New("equipment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrMessageTooLong возвращается, когда текст сообщения превышает лимит
	ErrMessageTooLong = errors.New("message is too long")

	// ErrStore возвращается при ошибках хранилища
	ErrStore = errors.New("messages: store error")
)
