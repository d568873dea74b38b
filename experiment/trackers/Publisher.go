package trackers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/samuelfneumann/ropeduel/episode"
)

// Channel publishes messages to a message broker. It is implemented by
// *amqp.Channel.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string,
		mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher publishes the result of each episode as a JSON message to a
// queue, so that external consumers can follow a run live
type Publisher struct {
	channel Channel
	queue   string
	timeout time.Duration
}

// NewPublisher returns a new *Publisher Tracker
func NewPublisher(ch Channel, queue string,
	timeout time.Duration) *Publisher {
	return &Publisher{channel: ch, queue: queue, timeout: timeout}
}

// DeclareQueue declares the durable queue that results are published
// to
func DeclareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	return err
}

// Track publishes the result of an episode
func (p *Publisher) Track(r episode.Result) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("track: could not encode episode %d: %w",
			r.Number, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.channel.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    r.Timestamp,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("track: could not publish episode %d: %w",
			r.Number, err)
	}
	return nil
}

// Save is a no-op; the channel is owned by the caller
func (p *Publisher) Save() error {
	return nil
}
