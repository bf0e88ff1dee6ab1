package model

import "time"

const (
	ReservationStatusConfirmed = "confirmed"
	DefaultQuantity            = 1
)

// ReservationRequest is what a client submits to the boundary.
type ReservationRequest struct {
	ID       string  `json:"id,omitempty" validate:"omitempty,max=64"`
	UserID   string  `json:"user_id" validate:"required,min=1,max=64,trimmed"`
	EventID  string  `json:"event_id" validate:"required,min=1,max=64,trimmed"`
	Quantity int     `json:"quantity" validate:"min=1,max=50"`
	Price    float64 `json:"price" validate:"gte=0"`
	Email    string  `json:"email,omitempty" validate:"omitempty,email"`
}

// Reservation is the durable record of a confirmed reservation. Its ID is the
// saga id, so repeated writes of the same saga collapse onto one document.
type Reservation struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	EventID   string    `json:"event_id" bson:"event_id"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	Amount    float64   `json:"amount" bson:"amount"`
	PaymentID string    `json:"payment_id" bson:"payment_id"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type ReservationResponse struct {
	Status       string             `json:"status"`
	Message      string             `json:"message"`
	Reserved     bool               `json:"reserved"`
	SagaID       string             `json:"saga_id"`
	State        string             `json:"state"`
	Notification NotificationResult `json:"notification"`
}
