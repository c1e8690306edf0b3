package models

import (
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// ListMessagesRequest запрос ленты сообщений по технике
type ListMessagesRequest struct {
	UserID      string `json:"-"`
	EquipmentID string `json:"-"`
	With        string `json:"-"` // собеседник, пусто - все собеседники пользователя
}

// PostMessageRequest запрос на отправку сообщения
type PostMessageRequest struct {
	UserID      string `json:"-"`
	EquipmentID string `json:"-"`
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
}

// MessageResponse сообщение чата
type MessageResponse struct {
	ID          string    `json:"id"`
	EquipmentID string    `json:"equipmentId"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageListResponse список сообщений
type MessageListResponse struct {
	Messages []*MessageResponse `json:"messages"`
}

// FromDomainMessage конвертирует domain модель в DTO
func FromDomainMessage(m *domain.ChatMessage) *MessageResponse {
	if m == nil {
		return nil
	}
	return &MessageResponse{
		ID:          m.ID,
		EquipmentID: m.EquipmentID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Message:     m.Body,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomainMessageList конвертирует список сообщений
func FromDomainMessageList(messages []*domain.ChatMessage) *MessageListResponse {
	result := make([]*MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, FromDomainMessage(m))
	}
	return &MessageListResponse{Messages: result}
}
