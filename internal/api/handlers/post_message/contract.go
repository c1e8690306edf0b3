package post_message

import (
	"context"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/service/messages/models"
)

type MessageService interface {
	Post(ctx context.Context, req *models.PostMessageRequest) (*models.MessageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
