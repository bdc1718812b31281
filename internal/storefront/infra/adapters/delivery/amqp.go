package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
)

const (
	ExchangeName = "storefront.orders"
	ExchangeType = "topic"
	RoutingKey   = "order.submitted"
)

// Publisher is the subset of *amqp.Channel used to publish orders.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

var _ Publisher = (*amqp.Channel)(nil)

// AMQPDelivery publishes each order as JSON to the orders exchange.
type AMQPDelivery struct {
	ch Publisher
}

var _ checkout.Delivery = (*AMQPDelivery)(nil)

func NewAMQPDelivery(ch Publisher) *AMQPDelivery {
	return &AMQPDelivery{ch: ch}
}

func (d *AMQPDelivery) Deliver(ctx context.Context, s checkout.Summary) {
	dispatch(ctx, "amqp", s.ID, func(ctx context.Context) error {
		return d.Publish(ctx, s)
	})
}

func (d *AMQPDelivery) Publish(ctx context.Context, s checkout.Summary) error {
	body, err := json.Marshal(ToOrder(s))
	if err != nil {
		return fmt.Errorf("could not marshal order: %w", err)
	}

	return d.ch.PublishWithContext(ctx,
		ExchangeName, // exchange
		RoutingKey,   // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    s.ID,
			Timestamp:    s.Timestamp,
			Body:         body,
		},
	)
}

// SetupConn dials the broker, retrying while it starts up, and declares the
// orders exchange.
func SetupConn(url string) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		slog.Warn("failed to connect to RabbitMQ", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return conn, ch, nil
}
