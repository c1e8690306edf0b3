package chat

import "errors"

var (
	// ErrSendFailed возвращается, когда удаленная вставка сообщения не удалась.
	// Черновик остается в ленте со статусом failed и может быть отправлен повторно.
	ErrSendFailed = errors.New("chat: send failed")

	// ErrDraftNotFound возвращается, когда черновик с указанным локальным ID отсутствует
	ErrDraftNotFound = errors.New("chat: draft not found")

	// ErrDraftNotFailed возвращается при повторной отправке черновика, который не в статусе failed
	ErrDraftNotFailed = errors.New("chat: draft is not in failed state")

	// ErrLoad возвращается при ошибке загрузки ленты
	ErrLoad = errors.New("chat: failed to load thread")

	// ErrSubscribe возвращается при ошибке подписки на изменения
	ErrSubscribe = errors.New("chat: failed to subscribe")
)
