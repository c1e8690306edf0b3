package chat_session

import (
	"context"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/chat"
)

// Thread лента сообщений, которую ведет сессия
type Thread interface {
	Load(ctx context.Context) ([]chat.Entry, error)
	Watch(ctx context.Context, handlers chat.Handlers, fn func(ctx context.Context) error) error
	Send(ctx context.Context, body string) *chat.Delivery
	Retry(ctx context.Context, localID string) (*chat.Delivery, error)
}

// ThreadFactory создает ленту для пары участников по технике
type ThreadFactory func(scope chat.Scope) Thread

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
