package model

import "time"

type Notification struct {
	ReservationID string    `json:"reservation_id"`
	UserID        string    `json:"user_id"`
	EventID       string    `json:"event_id"`
	Quantity      int       `json:"quantity"`
	Email         string    `json:"email,omitempty"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

// NotificationResult reports the best-effort notification step. It never
// affects whether the reservation succeeded.
type NotificationResult struct {
	Sent    bool   `json:"sent"`
	Details string `json:"details"`
}
