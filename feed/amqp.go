package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/guptarajStha/restaurant-web/models"
)

const DefaultExchange = "orders_feed"

// Publisher is the part of *amqp.Channel the bridge uses
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Snapshot is the message body published for every feed update
type Snapshot struct {
	Orders      []models.Order `json:"orders"`
	PublishedAt time.Time      `json:"published_at"`
}

// AMQPBridge republishes feed snapshots to a fanout exchange so that
// kitchen displays and other services can follow orders without polling.
type AMQPBridge struct {
	pub      Publisher
	exchange string
	log      zerolog.Logger
	conn     *amqp.Connection
	ch       *amqp.Channel
}

func NewAMQPBridge(pub Publisher, exchange string, log zerolog.Logger) *AMQPBridge {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPBridge{pub: pub, exchange: exchange, log: log}
}

// DialAMQP connects to the broker and declares a durable fanout exchange
func DialAMQP(url, exchange string, log zerolog.Logger) (*AMQPBridge, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	b := NewAMQPBridge(ch, exchange, log)
	b.conn = conn
	b.ch = ch
	log.Info().Str("exchange", exchange).Msg("connected to rabbitmq")
	return b, nil
}

// Publish sends one snapshot to the exchange
func (b *AMQPBridge) Publish(ctx context.Context, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	now := time.Now()
	body, err := json.Marshal(Snapshot{Orders: orders, PublishedAt: now})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = b.pub.PublishWithContext(ctx,
		b.exchange, // exchange
		"",         // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    now,
		})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", b.exchange, err)
	}
	b.log.Debug().Int("orders", len(orders)).Msg("feed snapshot published")
	return nil
}

// Attach subscribes the bridge to h. The returned func detaches it.
func (b *AMQPBridge) Attach(h *Hub, limit int) func() {
	return h.Subscribe(limit, func(orders []models.Order) {
		if err := b.Publish(context.Background(), orders); err != nil {
			b.log.Error().Err(err).Msg("feed snapshot not published")
		}
	})
}

// Close releases the broker connection opened by DialAMQP
func (b *AMQPBridge) Close() error {
	if b.ch != nil {
		b.ch.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
