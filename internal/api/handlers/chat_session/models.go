package chat_session

import (
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/chat"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// Типы входящих кадров
const (
	FrameSend    = "send"
	FrameRetry   = "retry"
	FrameRefresh = "refresh"
)

// Типы исходящих кадров
const (
	FrameSnapshot  = "snapshot"
	FrameDraft     = "draft"
	FrameDelivered = "delivered"
	FrameFailed    = "failed"
	FrameInsert    = "insert"
	FrameUpdate    = "update"
	FrameDelete    = "delete"
	FrameError     = "error"
)

// Статус элемента ленты для клиента
const (
	StatusSent = "sent"
)

// InboundFrame кадр от клиента
type InboundFrame struct {
	Type    string `json:"type"`
	Body    string `json:"body,omitempty"`
	LocalID string `json:"localId,omitempty"`
}

// EntryFrame элемент ленты
type EntryFrame struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"` // sent | pending | failed
}

// OutboundFrame кадр клиенту
type OutboundFrame struct {
	Type      string       `json:"type"`
	Entries   []EntryFrame `json:"entries,omitempty"`
	Entry     *EntryFrame  `json:"entry,omitempty"`
	ID        string       `json:"id,omitempty"`
	LocalID   string       `json:"localId,omitempty"`
	MessageID string       `json:"messageId,omitempty"`
	Message   string       `json:"message,omitempty"`
}

func fromEntry(e chat.Entry) EntryFrame {
	status := StatusSent
	if e.IsDraft() {
		status = string(e.Draft.Status)
	}
	return EntryFrame{
		ID:        e.ID(),
		SenderID:  e.SenderID(),
		Body:      e.Body(),
		CreatedAt: e.CreatedAt(),
		Status:    status,
	}
}

func fromEntries(entries []chat.Entry) []EntryFrame {
	out := make([]EntryFrame, 0, len(entries))
	for _, e := range entries {
		out = append(out, fromEntry(e))
	}
	return out
}

func fromMessage(m domain.ChatMessage) *EntryFrame {
	return &EntryFrame{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		Status:    StatusSent,
	}
}
