package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open publisher channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{channel: ch, exchange: exchange}, nil
}

// ClassificationPublisher emits one event per completed classification on
// the classification.completed routing key.
type ClassificationPublisher struct {
	pub        *Publisher
	routingKey string
}

func NewClassificationPublisher(pub *Publisher) *ClassificationPublisher {
	return &ClassificationPublisher{pub: pub, routingKey: "classification.completed"}
}

func (cp *ClassificationPublisher) PublishClassification(ctx context.Context, msg []byte) error {
	return cp.pub.channel.PublishWithContext(ctx,
		cp.pub.exchange,
		cp.routingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
}
