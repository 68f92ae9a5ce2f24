// Package rabbit wraps the AMQP client with the queue contract the billing
// pipeline depends on: durable queues, persistent messages, publisher
// confirms, and per-delivery ack/nack with requeue.
package rabbit

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Client struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

func Dial(uri string, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, logger: logger}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// declareQueue declares name as durable. Losing a billing event means a
// customer is never billed, so both the queue and its messages must survive
// a broker restart.
func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
}
