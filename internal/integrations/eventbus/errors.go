package eventbus

import "errors"

var (
	// ErrEncode возвращается, когда событие не удалось сериализовать
	ErrEncode = errors.New("eventbus: failed to encode event")

	// ErrPublish возвращается при ошибке публикации в брокер
	ErrPublish = errors.New("eventbus: failed to publish event")
)
