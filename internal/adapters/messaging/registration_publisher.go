package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// PublishLedgerEvent sends evt to the registration queue. The AMQP Type
// property carries the event type so consumers can route without decoding.
func (rmq *RabbitMQBroker) PublishLedgerEvent(ctx context.Context, evt ports.LedgerEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    uuid.NewString(),
				Type:         evt.Type,
				Timestamp:    evt.OccurredAt,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
