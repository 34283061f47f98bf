// Package queue_publisher publishes domain events to RabbitMQ. Errors are
// returned so the caller can decide whether to ignore them; a broker outage
// must never fail the request that triggered the event.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/sakilastore/movie-rental/internal/queue"
)

// PublishRentalConfirmed publishes a RentalConfirmedEvent to the durable
// rental.confirmed queue. Messages are marked persistent so they survive a
// broker restart.
func PublishRentalConfirmed(ctx context.Context, url string, event q.RentalConfirmedEvent) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so publish works before the consumer has started.
	if _, err := ch.QueueDeclare("rental.confirmed", true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	return ch.PublishWithContext(ctx, "", "rental.confirmed", false, false, pub)
}
