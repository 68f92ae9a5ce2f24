package rabbit

import (
	"context"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrNotConfirmed means the broker negatively acknowledged the publish.
var ErrNotConfirmed = errors.New("publish not confirmed by broker")

// Publisher publishes persistent messages to a single durable queue and
// waits for the broker's publish confirmation (not consumer confirmation).
type Publisher struct {
	mu      sync.Mutex
	ch      *amqp.Channel
	queue   string
	timeout time.Duration
	logger  *zap.Logger
}

func NewPublisher(client *Client, queue string, timeout time.Duration, logger *zap.Logger) (*Publisher, error) {
	ch, err := client.conn.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := declareQueue(ch, queue); err != nil {
		_ = ch.Close()
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, err
	}
	return &Publisher{
		ch:      ch,
		queue:   queue,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Publish sends body and blocks until the broker confirms it, the timeout
// elapses, or ctx is done. A timeout is reported as an error so callers can
// abort the same way they would on an explicit publish failure.
func (p *Publisher) Publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	conf, err := p.ch.PublishWithDeferredConfirmWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	p.mu.Unlock()
	if err != nil {
		return err
	}

	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrNotConfirmed
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}
