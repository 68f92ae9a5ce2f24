package rabbit

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var ErrChannelClosed = errors.New("consume channel closed")

type Handler func(ctx context.Context, body []byte) error

// Consumer drives a single delivery stream. The handler never touches the
// delivery itself; the consumer settles each message exactly once based on
// the handler's error: ack on nil, nack with requeue otherwise. Requeue is
// unbounded here: no backoff, no retry cutoff, no dead-letter routing.
type Consumer struct {
	ch      *amqp.Channel
	queue   string
	noAck   bool
	handler Handler
	logger  *zap.Logger
}

// NewConsumer declares the durable queue and opens a channel with prefetch 1.
// noAck switches delivery to at-most-once; it exists for parity with the
// broker options and must stay false for the billing queue.
func NewConsumer(client *Client, queue string, noAck bool, handler Handler, logger *zap.Logger) (*Consumer, error) {
	ch, err := client.conn.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := declareQueue(ch, queue); err != nil {
		_ = ch.Close()
		return nil, err
	}
	if !noAck {
		if err := ch.Qos(1, 0, false); err != nil {
			_ = ch.Close()
			return nil, err
		}
	}
	return &Consumer{
		ch:      ch,
		queue:   queue,
		noAck:   noAck,
		handler: handler,
		logger:  logger,
	}, nil
}

func (c *Consumer) Run(ctx context.Context) error {
	defer func() { _ = c.ch.Close() }()

	deliveries, err := c.ch.ConsumeWithContext(ctx,
		c.queue,
		"",      // consumer tag, broker-generated
		c.noAck, // autoAck
		false,   // exclusive
		false,   // noLocal
		false,   // noWait
		nil,
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrChannelClosed
			}
			c.process(ctx, d)
		}
	}
}

// process is the only place a delivery is acked or nacked.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	err := c.handler(ctx, d.Body)

	if c.noAck {
		if err != nil {
			c.logger.Error("handler error on autoAck delivery, message lost",
				zap.Uint64("delivery_tag", d.DeliveryTag),
				zap.Error(err),
			)
		}
		return
	}

	if err != nil {
		c.logger.Error("handler error, requeueing",
			zap.Uint64("delivery_tag", d.DeliveryTag),
			zap.Error(err),
		)
		if nerr := d.Nack(false, true); nerr != nil {
			c.logger.Error("nack failed",
				zap.Uint64("delivery_tag", d.DeliveryTag),
				zap.Error(nerr),
			)
		}
		return
	}

	if aerr := d.Ack(false); aerr != nil {
		c.logger.Error("ack failed",
			zap.Uint64("delivery_tag", d.DeliveryTag),
			zap.Error(aerr),
		)
	}
}
