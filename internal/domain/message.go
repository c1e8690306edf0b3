package domain

import "time"

// ChatMessage one persisted message in a two-party thread about an equipment listing
type ChatMessage struct {
	ID          string
	EquipmentID string
	SenderID    string
	RecipientID string
	Body        string
	CreatedAt   time.Time
}

// Involves returns true if the user is the sender or the recipient
func (m *ChatMessage) Involves(userID string) bool {
	return m.SenderID == userID || m.RecipientID == userID
}

// ChangeType kind of a remote change event on the messages table
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
	// ChangeResync is emitted after the feed reconnected and events may have been lost
	ChangeResync ChangeType = "RESYNC"
)

// MessageChange remote change notification for equipment_messages
type MessageChange struct {
	Type        ChangeType
	EquipmentID string
	Record      *ChatMessage // nil for delete and resync
	OldID       string       // id of the deleted row
}
