package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/asemenkov/ecomm-backend/internal/domain"
	"github.com/asemenkov/ecomm-backend/internal/observability"
)

// Ledger is the processed-event store. Record must be idempotent per event id.
type Ledger interface {
	Seen(eventID string) (bool, error)
	Record(bill domain.Bill) (bool, error)
}

// Consumer handles ORDER_CREATED deliveries. Handle satisfies the broker's
// handler contract: a nil return acks the delivery, an error nacks it back
// onto the queue with requeue, indefinitely.
type Consumer struct {
	ledger  Ledger
	logger  *zap.Logger
	metrics observability.Metrics
}

func NewConsumer(ledger Ledger, logger *zap.Logger, metrics observability.Metrics) *Consumer {
	return &Consumer{
		ledger:  ledger,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev domain.BillingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		// An undecodable payload will requeue forever. Known gap, same as
		// every other handler failure here.
		c.metrics.IncBillingNacked()
		return fmt.Errorf("decode billing event: %w", err)
	}

	if ev.EventID == "" {
		// Producers always set eventId, but the queue is a shared wire
		// format. Derive a stable id from the payload so dedup still holds
		// across redeliveries and the ledger never sees an empty key.
		sum := sha256.Sum256(body)
		ev.EventID = "sha256:" + hex.EncodeToString(sum[:])
	}

	seen, err := c.ledger.Seen(ev.EventID)
	if err != nil {
		c.metrics.IncBillingNacked()
		return fmt.Errorf("ledger lookup: %w", err)
	}
	if seen {
		// Redelivery of an already-billed event: ack it away, bill once.
		c.metrics.IncBillingDuplicate()
		c.metrics.IncBillingAcked()
		c.logger.Info("duplicate billing event",
			zap.String("event_id", ev.EventID),
		)
		return nil
	}

	bill := NewBill(ev)
	created, err := c.ledger.Record(bill)
	if err != nil {
		c.metrics.IncBillingNacked()
		return fmt.Errorf("record bill: %w", err)
	}
	if !created {
		c.metrics.IncBillingDuplicate()
		c.metrics.IncBillingAcked()
		c.logger.Info("duplicate billing event",
			zap.String("event_id", ev.EventID),
		)
		return nil
	}

	c.metrics.IncBillingAcked()
	c.logger.Info("order billed",
		zap.String("event_id", ev.EventID),
		zap.String("bill_id", bill.ID),
		zap.Float64("amount", bill.Amount),
	)
	return nil
}
