package realtime

import "errors"

var (
	// ErrHubClosed возвращается при подписке на закрытый hub
	ErrHubClosed = errors.New("realtime: hub is closed")

	// ErrInvalidPayload возвращается, когда событие не удалось разобрать
	ErrInvalidPayload = errors.New("realtime: invalid change payload")

	// ErrEmptyEquipmentID возвращается при подписке без ID техники
	ErrEmptyEquipmentID = errors.New("realtime: equipment id is required")
)
