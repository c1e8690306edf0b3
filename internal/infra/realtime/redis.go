package realtime

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

// RedisSource читает события из Redis pub/sub и передает их в Hub
type RedisSource struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  Logger
}

// NewRedisSource создает источник событий из Redis
func NewRedisSource(client *redis.Client, channel string, hub *Hub, logger Logger) *RedisSource {
	return &RedisSource{
		client:  client,
		channel: channel,
		hub:     hub,
		logger:  logger,
	}
}

// Run подписывается на канал и раздает события до отмены ctx
func (s *RedisSource) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("realtime: subscribe %s: %w", s.channel, err)
	}
	s.logger.Info("Realtime: listening on redis channel %s", s.channel)

	// После переподключения go-redis повторно подписывается и присылает *redis.Subscription
	messages := pubsub.ChannelWithSubscriptions()
	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-messages:
			if !ok {
				return nil
			}
			switch msg := raw.(type) {
			case *redis.Subscription:
				if msg.Kind == "subscribe" {
					s.logger.Warn("Realtime: redis channel %s resubscribed, requesting resync", msg.Channel)
					s.hub.Resync()
				}
			case *redis.Message:
				change, err := DecodeChange([]byte(msg.Payload))
				if err != nil {
					s.logger.Warn("Realtime: skip redis message on %s: %v", msg.Channel, err)
					continue
				}
				s.hub.Dispatch(change)
			}
		}
	}
}

// RedisPublisher публикует события сообщений в Redis.
// Используется, когда триггер Postgres не является источником событий.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher создает публикатор событий
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// PublishChange отправляет событие в канал
func (p *RedisPublisher) PublishChange(ctx context.Context, change domain.MessageChange) error {
	payload, err := EncodeChange(change)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("realtime: publish to %s: %w", p.channel, err)
	}
	return nil
}

// NoopPublisher ничего не публикует: события приходят от триггера Postgres
type NoopPublisher struct{}

// PublishChange ничего не делает
func (NoopPublisher) PublishChange(context.Context, domain.MessageChange) error { return nil }
