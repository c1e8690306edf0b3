package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher публикует события уведомлений
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// NewPublisher создает AMQP публикатор или noop, если AMQP отключен или недоступен
func NewPublisher(amqpURL, exchange string, log Logger) Publisher {
	if amqpURL == "" {
		log.Info("EventBus: amqp disabled, using noop: empty amqp url")
		return &NoopPublisher{Reason: "empty amqp url", log: log}
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Warn("EventBus: amqp disabled, using noop: %v", err)
		return &NoopPublisher{Reason: err.Error(), log: log}
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("EventBus: amqp disabled, using noop: %v", err)
		_ = conn.Close()
		return &NoopPublisher{Reason: err.Error(), log: log}
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		log.Warn("EventBus: amqp disabled, using noop: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return &NoopPublisher{Reason: err.Error(), log: log}
	}

	log.Info("EventBus: amqp connected, exchange=%s", exchange)
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}
}

// AMQPPublisher публикует JSON события в topic exchange
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Publish сериализует событие и отправляет его в exchange
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	return nil
}

// Close закрывает канал и соединение
func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher только логирует события
type NoopPublisher struct {
	Reason string
	log    Logger
}

// Publish логирует событие без отправки
func (p *NoopPublisher) Publish(_ context.Context, routingKey string, event any) error {
	if n, ok := event.(NotificationEvent); ok {
		p.log.Info("EventBus: noop publish routing_key=%s notification=%s user=%s", routingKey, n.NotificationID, n.UserID)
		return nil
	}
	p.log.Info("EventBus: noop publish routing_key=%s", routingKey)
	return nil
}

// Close ничего не делает
func (p *NoopPublisher) Close() error {
	return nil
}

// Mode режим публикатора для логирования
func Mode(p Publisher) string {
	switch p.(type) {
	case *AMQPPublisher:
		return "amqp"
	case *NoopPublisher:
		return "noop"
	default:
		return "unknown"
	}
}
