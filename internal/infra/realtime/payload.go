package realtime

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// messageRecord строка equipment_messages в формате row_to_json
type messageRecord struct {
	ID          string    `json:"id"`
	EquipmentID string    `json:"equipment_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// changePayload событие, которое публикует триггер (или RedisPublisher)
type changePayload struct {
	Op     string         `json:"op"`
	Record *messageRecord `json:"record"`
	OldID  string         `json:"old_id,omitempty"`
}

// DecodeChange разбирает JSON события в domain.MessageChange
func DecodeChange(raw []byte) (domain.MessageChange, error) {
	var p changePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.MessageChange{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.Record == nil {
		return domain.MessageChange{}, fmt.Errorf("%w: record is missing", ErrInvalidPayload)
	}

	change := domain.MessageChange{
		Type:        domain.ChangeType(strings.ToUpper(p.Op)),
		EquipmentID: p.Record.EquipmentID,
	}

	switch change.Type {
	case domain.ChangeInsert, domain.ChangeUpdate:
		change.Record = p.Record.toDomain()
	case domain.ChangeDelete:
		change.OldID = p.OldID
		if change.OldID == "" {
			change.OldID = p.Record.ID
		}
	default:
		return domain.MessageChange{}, fmt.Errorf("%w: unknown op %q", ErrInvalidPayload, p.Op)
	}

	if change.EquipmentID == "" {
		return domain.MessageChange{}, fmt.Errorf("%w: equipment_id is missing", ErrInvalidPayload)
	}

	return change, nil
}

// EncodeChange сериализует событие в тот же формат, что и триггер
func EncodeChange(change domain.MessageChange) ([]byte, error) {
	p := changePayload{
		Op:    string(change.Type),
		OldID: change.OldID,
	}
	if change.Record != nil {
		p.Record = fromDomain(change.Record)
	} else {
		p.Record = &messageRecord{ID: change.OldID, EquipmentID: change.EquipmentID}
	}
	return json.Marshal(p)
}

func (r *messageRecord) toDomain() *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:          r.ID,
		EquipmentID: r.EquipmentID,
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
		Body:        r.Message,
		CreatedAt:   r.CreatedAt,
	}
}

func fromDomain(m *domain.ChatMessage) *messageRecord {
	return &messageRecord{
		ID:          m.ID,
		EquipmentID: m.EquipmentID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Message:     m.Body,
		CreatedAt:   m.CreatedAt,
	}
}
