// Package queue contains the background consumer that listens to the
// rental.confirmed queue and appends structured lines to logs/rental.log.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const rentalQueueName = "rental.confirmed"

// StartRentalConsumer connects to RabbitMQ, declares the durable
// rental.confirmed queue and consumes it forever. Each message becomes one
// line in logs/rental.log. The function runs a reconnect loop with capped
// backoff and never returns; processing errors are logged and the message
// rejected without requeue so a poison message cannot wedge the consumer.
func StartRentalConsumer(url string, logger zerolog.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Warn().Err(err).Dur("retry_in", backoff).Msg("rental-consumer: dial failed")
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, logger); err != nil {
			logger.Warn().Err(err).Msg("rental-consumer: consume loop ended, reconnecting")
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, logger zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn().Err(err).Msg("rental-consumer: set QoS failed")
	}

	if _, err := ch.QueueDeclare(rentalQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(rentalQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			logger.Error().Err(err).Msg("rental-consumer: handle message failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev RentalConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "rental.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Rental confirmed | rental_id=%d | payment_id=%d | customer_id=%d | film=%q | inventory_id=%d | amount=%d cents\n",
		ev.RentedAt, ev.RentalID, ev.PaymentID, ev.CustomerID, ev.FilmTitle, ev.InventoryID, ev.AmountCents)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
