package domain

import "time"

// Bill is the billing service's record of a processed ORDER_CREATED event.
// Exactly one bill exists per logical event, however many times the broker
// redelivers it.
type Bill struct {
	ID          string    `json:"id"`
	EventID     string    `json:"eventId"`
	OrderName   string    `json:"orderName"`
	PhoneNumber string    `json:"phoneNumber"`
	Amount      float64   `json:"amount"`
	BilledAt    time.Time `json:"billedAt"`
}
