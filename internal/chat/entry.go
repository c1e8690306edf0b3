package chat

import (
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// LocalIDPrefix префикс синтетических ID черновиков
const LocalIDPrefix = "local-"

// DraftStatus состояние неотправленного сообщения
type DraftStatus string

const (
	DraftPending DraftStatus = "pending"
	DraftFailed  DraftStatus = "failed"
)

// Draft сообщение, созданное локально и еще не подтвержденное хранилищем.
// Черновики никогда не сохраняются.
type Draft struct {
	LocalID     string
	EquipmentID string
	SenderID    string
	RecipientID string
	Body        string
	CreatedAt   time.Time
	Status      DraftStatus
}

// Entry элемент ленты: либо подтвержденное сообщение, либо черновик.
// Ровно одно из полей не nil.
type Entry struct {
	Confirmed *domain.ChatMessage
	Draft     *Draft
}

// ID возвращает реальный ID сообщения или локальный ID черновика
func (e Entry) ID() string {
	if e.Confirmed != nil {
		return e.Confirmed.ID
	}
	return e.Draft.LocalID
}

// CreatedAt время, по которому упорядочена лента
func (e Entry) CreatedAt() time.Time {
	if e.Confirmed != nil {
		return e.Confirmed.CreatedAt
	}
	return e.Draft.CreatedAt
}

// Body текст сообщения
func (e Entry) Body() string {
	if e.Confirmed != nil {
		return e.Confirmed.Body
	}
	return e.Draft.Body
}

// SenderID автор сообщения
func (e Entry) SenderID() string {
	if e.Confirmed != nil {
		return e.Confirmed.SenderID
	}
	return e.Draft.SenderID
}

// IsDraft true для неподтвержденных сообщений
func (e Entry) IsDraft() bool {
	return e.Draft != nil
}

// IsFailed true для черновика, отправка которого не удалась
func (e Entry) IsFailed() bool {
	return e.Draft != nil && e.Draft.Status == DraftFailed
}

func (e Entry) clone() Entry {
	if e.Confirmed != nil {
		msg := *e.Confirmed
		return Entry{Confirmed: &msg}
	}
	draft := *e.Draft
	return Entry{Draft: &draft}
}

func confirmed(msg *domain.ChatMessage) Entry {
	c := *msg
	return Entry{Confirmed: &c}
}
