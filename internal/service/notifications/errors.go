package notifications

import "errors"

var (
	// ErrNotificationNotFound возвращается, когда уведомление не найдено у пользователя
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrAccessDenied возвращается при попытке читать чужие уведомления
	ErrAccessDenied = errors.New("access denied")

	// ErrStore возвращается при ошибках хранилища
	ErrStore = errors.New("notifications: store error")
)
