package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
	messageRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/message"
)

const (
	pingInterval = 90 * time.Second
	fetchTimeout = 5 * time.Second
)

// MessageFetcher читает строку сообщения, когда уведомление содержит только id
type MessageFetcher interface {
	GetByID(ctx context.Context, id string) (*domain.ChatMessage, error)
}

// Listener часть *pq.Listener, которую использует PostgresSource
type Listener interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// PostgresSource читает события из LISTEN/NOTIFY и передает их в Hub.
// После переподключения pq.Listener присылает nil-уведомление: события
// могли быть потеряны, поэтому подписчики получают RESYNC.
type PostgresSource struct {
	listener Listener
	channel  string
	fetcher  MessageFetcher
	hub      *Hub
	logger   Logger
}

// NewPostgresListener создает pq.Listener с логированием событий соединения
func NewPostgresListener(dsn string, minReconnect, maxReconnect time.Duration, logger Logger) *pq.Listener {
	return pq.NewListener(dsn, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			logger.Info("Realtime: postgres listener connected")
		case pq.ListenerEventDisconnected:
			logger.Warn("Realtime: postgres listener disconnected: %v", err)
		case pq.ListenerEventReconnected:
			logger.Info("Realtime: postgres listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Error("Realtime: postgres listener connection attempt failed: %v", err)
		}
	})
}

// NewPostgresSource создает источник событий поверх listener
func NewPostgresSource(listener Listener, channel string, fetcher MessageFetcher, hub *Hub, logger Logger) *PostgresSource {
	return &PostgresSource{
		listener: listener,
		channel:  channel,
		fetcher:  fetcher,
		hub:      hub,
		logger:   logger,
	}
}

// Run подписывается на канал и раздает события до отмены ctx
func (s *PostgresSource) Run(ctx context.Context) error {
	if err := s.listener.Listen(s.channel); err != nil {
		return fmt.Errorf("realtime: listen %s: %w", s.channel, err)
	}
	s.logger.Info("Realtime: listening on postgres channel %s", s.channel)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	notifications := s.listener.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return s.listener.Close()
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			s.handle(ctx, n)
		case <-ticker.C:
			if err := s.listener.Ping(); err != nil {
				s.logger.Warn("Realtime: postgres listener ping failed: %v", err)
			}
		}
	}
}

func (s *PostgresSource) handle(ctx context.Context, n *pq.Notification) {
	if n == nil {
		s.hub.Resync()
		return
	}
	change, err := DecodeChange([]byte(n.Extra))
	if err != nil {
		s.logger.Warn("Realtime: skip notification on %s: %v", n.Channel, err)
		return
	}

	// Триггер присылает только id и equipment_id, полная строка читается из БД
	if change.Record != nil && change.Record.SenderID == "" {
		if s.hub.SubscriberCount(change.EquipmentID) == 0 {
			return
		}
		record, err := s.fetch(ctx, change.Record.ID)
		if err != nil {
			if errors.Is(err, messageRepo.ErrMessageNotFound) {
				// строка уже удалена, придет событие DELETE
				return
			}
			s.logger.Error("Realtime: failed to fetch message id=%s: %v", change.Record.ID, err)
			s.hub.Resync()
			return
		}
		change.Record = record
	}

	s.hub.Dispatch(change)
}

func (s *PostgresSource) fetch(ctx context.Context, id string) (*domain.ChatMessage, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	return s.fetcher.GetByID(fetchCtx, id)
}
