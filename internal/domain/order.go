package domain

import "time"

type Order struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateOrderRequest struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,e164|startswith=+,min=7"`
}

// OrderUpdate is a partial merge: nil fields are left untouched.
type OrderUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	PhoneNumber *string  `json:"phoneNumber,omitempty"`
}

// BillingEvent is the ORDER_CREATED payload. It carries a copy of the request
// rather than a reference to the stored order, so billing never has to read
// the order store. EventID identifies the logical event across redeliveries.
type BillingEvent struct {
	EventID        string             `json:"eventId"`
	Request        CreateOrderRequest `json:"request"`
	Authentication string             `json:"Authentication"`
}
