package messaging

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/config"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// Channel is the part of an AMQP channel the broker publishes through.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQBroker implements ports.LedgerEventPublisher using RabbitMQ.
type RabbitMQBroker struct {
	conn      *amqp.Connection
	ch        Channel
	queueName string
	cb        *gobreaker.CircuitBreaker
}

var _ ports.LedgerEventPublisher = (*RabbitMQBroker)(nil)

func NewRabbitMQBroker(amqpURL, queueName string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Declare the queue (idempotent)
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	broker := newBroker(ch, queueName)
	broker.conn = conn
	return broker, nil
}

func newBroker(ch Channel, queueName string) *RabbitMQBroker {
	return &RabbitMQBroker{
		ch:        ch,
		queueName: queueName,
		cb:        config.NewCircuitBreaker(config.BreakerRabbitMQ),
	}
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
