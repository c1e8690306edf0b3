package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

func TestDecodeChange(t *testing.T) {
	t.Run("Insert from trigger payload", func(t *testing.T) {
		raw := `{"op":"INSERT","record":{"id":"m-1","equipment_id":"eq-1","sender_id":"u-1","recipient_id":"u-2","message":"Hi","created_at":"2024-01-05T10:00:00.123456+00:00"}}`

		change, err := DecodeChange([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, domain.ChangeInsert, change.Type)
		assert.Equal(t, "eq-1", change.EquipmentID)
		require.NotNil(t, change.Record)
		assert.Equal(t, "Hi", change.Record.Body)
		assert.Equal(t, 2024, change.Record.CreatedAt.Year())
	})

	t.Run("Delete uses old id", func(t *testing.T) {
		raw := `{"op":"delete","record":{"id":"m-1","equipment_id":"eq-1"},"old_id":"m-1"}`

		change, err := DecodeChange([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, domain.ChangeDelete, change.Type)
		assert.Equal(t, "m-1", change.OldID)
		assert.Nil(t, change.Record)
	})

	t.Run("Invalid payloads", func(t *testing.T) {
		for _, raw := range []string{
			`not json`,
			`{"op":"INSERT"}`,
			`{"op":"TRUNCATE","record":{"id":"m-1","equipment_id":"eq-1"}}`,
			`{"op":"INSERT","record":{"id":"m-1"}}`,
		} {
			_, err := DecodeChange([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidPayload, raw)
		}
	})
}

func TestEncodeChange_DecodesBack(t *testing.T) {
	created := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	change := domain.MessageChange{
		Type:        domain.ChangeInsert,
		EquipmentID: "eq-1",
		Record: &domain.ChatMessage{
			ID: "m-1", EquipmentID: "eq-1", SenderID: "u-1", RecipientID: "u-2", Body: "Hi", CreatedAt: created,
		},
	}

	raw, err := EncodeChange(change)
	require.NoError(t, err)

	decoded, err := DecodeChange(raw)
	require.NoError(t, err)
	assert.Equal(t, change.Record.ID, decoded.Record.ID)
	assert.True(t, created.Equal(decoded.Record.CreatedAt))

	raw, err = EncodeChange(domain.MessageChange{Type: domain.ChangeDelete, EquipmentID: "eq-1", OldID: "m-1"})
	require.NoError(t, err)
	decoded, err = DecodeChange(raw)
	require.NoError(t, err)
	assert.Equal(t, "m-1", decoded.OldID)
}
