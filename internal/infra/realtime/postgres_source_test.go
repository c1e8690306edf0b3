package realtime

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	messageRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/message"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
)

type fakeFetcher struct {
	messages map[string]*domain.ChatMessage
	err      error
	calls    int
}

func (f *fakeFetcher) GetByID(_ context.Context, id string) (*domain.ChatMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.messages[id]
	if !ok {
		return nil, messageRepo.ErrMessageNotFound
	}
	return m, nil
}

type fakeListener struct {
	ch        chan *pq.Notification
	listenErr error
	listened  string
	closed    bool
}

func newFakeListener() *fakeListener {
	return &fakeListener{ch: make(chan *pq.Notification)}
}

func (l *fakeListener) Listen(channel string) error {
	l.listened = channel
	return l.listenErr
}

func (l *fakeListener) NotificationChannel() <-chan *pq.Notification { return l.ch }

func (l *fakeListener) Ping() error { return nil }

func (l *fakeListener) Close() error {
	l.closed = true
	return nil
}

func TestPostgresSource_Run(t *testing.T) {
	hub := NewHub(nil, logger.Nop())
	listener := newFakeListener()
	source := NewPostgresSource(listener, "equipment_messages", &fakeFetcher{}, hub, logger.Nop())

	events := make(chan domain.MessageChange, 4)
	_, err := hub.Subscribe(context.Background(), "eq-1", func(c domain.MessageChange) { events <- c })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- source.Run(ctx) }()

	listener.ch <- &pq.Notification{
		Channel: "equipment_messages",
		Extra:   `{"op":"INSERT","record":{"id":"m-1","equipment_id":"eq-1","sender_id":"u-1","recipient_id":"u-2","message":"Hi","created_at":"2024-01-05T10:00:00Z"}}`,
	}
	// некорректное событие пропускается
	listener.ch <- &pq.Notification{Channel: "equipment_messages", Extra: `garbage`}
	// переподключение
	listener.ch <- nil

	first := receive(t, events)
	assert.Equal(t, domain.ChangeInsert, first.Type)
	assert.Equal(t, "m-1", first.Record.ID)

	second := receive(t, events)
	assert.Equal(t, domain.ChangeResync, second.Type)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("source did not stop")
	}
	assert.Equal(t, "equipment_messages", listener.listened)
	assert.True(t, listener.closed)
}

func TestPostgresSource_ListenError(t *testing.T) {
	listener := newFakeListener()
	listener.listenErr = errors.New("connection refused")
	source := NewPostgresSource(listener, "equipment_messages", &fakeFetcher{}, NewHub(nil, logger.Nop()), logger.Nop())

	err := source.Run(context.Background())
	assert.Error(t, err)
}

func TestPostgresSource_FetchesRowForIDOnlyNotification(t *testing.T) {
	long := strings.Repeat("क", 3000)
	created := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{messages: map[string]*domain.ChatMessage{
		"m-1": {ID: "m-1", EquipmentID: "eq-1", SenderID: "u-1", RecipientID: "u-2", Body: long, CreatedAt: created},
	}}
	hub := NewHub(nil, logger.Nop())
	source := NewPostgresSource(newFakeListener(), "equipment_messages", fetcher, hub, logger.Nop())

	events := make(chan domain.MessageChange, 4)
	_, err := hub.Subscribe(context.Background(), "eq-1", func(c domain.MessageChange) { events <- c })
	require.NoError(t, err)

	// payload триггера не зависит от длины текста
	payload := `{"op":"INSERT","record":{"id":"m-1","equipment_id":"eq-1"},"old_id":null}`
	assert.Less(t, len(payload), 8000)
	assert.Greater(t, len(long), 8000)

	source.handle(context.Background(), &pq.Notification{Channel: "equipment_messages", Extra: payload})

	got := receive(t, events)
	assert.Equal(t, domain.ChangeInsert, got.Type)
	require.NotNil(t, got.Record)
	assert.Equal(t, long, got.Record.Body)
	assert.Equal(t, "u-1", got.Record.SenderID)
	assert.Equal(t, 1, fetcher.calls)
}

func TestPostgresSource_IDOnlyNotificationEdgeCases(t *testing.T) {
	payload := `{"op":"UPDATE","record":{"id":"m-1","equipment_id":"eq-1"},"old_id":null}`

	t.Run("No subscribers skips fetch", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		source := NewPostgresSource(newFakeListener(), "equipment_messages", fetcher, NewHub(nil, logger.Nop()), logger.Nop())

		source.handle(context.Background(), &pq.Notification{Extra: payload})
		assert.Equal(t, 0, fetcher.calls)
	})

	t.Run("Row already deleted", func(t *testing.T) {
		hub := NewHub(nil, logger.Nop())
		events := make(chan domain.MessageChange, 4)
		_, err := hub.Subscribe(context.Background(), "eq-1", func(c domain.MessageChange) { events <- c })
		require.NoError(t, err)

		source := NewPostgresSource(newFakeListener(), "equipment_messages", &fakeFetcher{}, hub, logger.Nop())
		source.handle(context.Background(), &pq.Notification{Extra: payload})
		hub.Flush()
		assert.Empty(t, events)
	})

	t.Run("Fetch failure requests resync", func(t *testing.T) {
		hub := NewHub(nil, logger.Nop())
		events := make(chan domain.MessageChange, 4)
		_, err := hub.Subscribe(context.Background(), "eq-1", func(c domain.MessageChange) { events <- c })
		require.NoError(t, err)

		source := NewPostgresSource(newFakeListener(), "equipment_messages", &fakeFetcher{err: errors.New("connection reset")}, hub, logger.Nop())
		source.handle(context.Background(), &pq.Notification{Extra: payload})

		assert.Equal(t, domain.ChangeResync, receive(t, events).Type)
	})

	t.Run("Delete needs no fetch", func(t *testing.T) {
		hub := NewHub(nil, logger.Nop())
		events := make(chan domain.MessageChange, 4)
		_, err := hub.Subscribe(context.Background(), "eq-1", func(c domain.MessageChange) { events <- c })
		require.NoError(t, err)

		fetcher := &fakeFetcher{}
		source := NewPostgresSource(newFakeListener(), "equipment_messages", fetcher, hub, logger.Nop())
		source.handle(context.Background(), &pq.Notification{
			Extra: `{"op":"DELETE","record":{"id":"m-1","equipment_id":"eq-1"},"old_id":"m-1"}`,
		})

		got := receive(t, events)
		assert.Equal(t, domain.ChangeDelete, got.Type)
		assert.Equal(t, "m-1", got.OldID)
		assert.Equal(t, 0, fetcher.calls)
	})
}

func receive(t *testing.T, ch <-chan domain.MessageChange) domain.MessageChange {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return domain.MessageChange{}
	}
}
