package realtime

import "github.com/kaamconnect/KaamConnect-RentalService/internal/domain"

// Handler получает события изменений по одной технике
type Handler func(change domain.MessageChange)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчики подписок и событий (nil допустим)
type Metrics interface {
	AddRealtimeSubscriptions(delta float64)
	IncRealtimeEvent(eventType string)
}
