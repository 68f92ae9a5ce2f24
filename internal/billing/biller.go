package billing

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/asemenkov/ecomm-backend/internal/domain"
)

// NewBill computes a bill from the event payload alone. No network calls
// here: the consumer must be able to retry this for free on redelivery.
func NewBill(ev domain.BillingEvent) domain.Bill {
	return domain.Bill{
		ID:          uuid.NewString(),
		EventID:     ev.EventID,
		OrderName:   ev.Request.Name,
		PhoneNumber: ev.Request.PhoneNumber,
		Amount:      roundCents(ev.Request.Price),
		BilledAt:    time.Now().UTC(),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
