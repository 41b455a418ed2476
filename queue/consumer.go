package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartEmailWorker consumes booking.emails and hands each event to the
// notifier. It runs a reconnect loop with capped backoff and never returns
// under normal operation; run it on its own goroutine.
func StartEmailWorker(notifier Notifier) {
	url := brokerURL()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("email-worker: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, notifier); err != nil {
			log.Printf("email-worker: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, notifier Notifier) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		log.Printf("email-worker: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(EmailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(EmailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, notifier); err != nil {
			log.Printf("email-worker: handle message failed: %v", err)
			// Reject without requeueing to avoid a tight redelivery loop.
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, notifier Notifier) error {
	var ev BookingEmailEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if ev.Recipient == "" {
		return errors.New("event has no recipient")
	}
	subject, text := composeEmail(ev)
	if err := notifier.Notify(ev.Recipient, subject, text); err != nil {
		return fmt.Errorf("notify %s: %w", ev.Recipient, err)
	}
	return nil
}
