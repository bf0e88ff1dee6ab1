package model

type Charge struct {
	ReservationID string  `json:"reservation_id"`
	UserID        string  `json:"user_id"`
	EventID       string  `json:"event_id"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
}

// Amount is the total charged for the reservation.
func (c Charge) Amount() float64 {
	return c.Price * float64(c.Quantity)
}

type PaymentReceipt struct {
	Status    string  `json:"status"`
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
}
