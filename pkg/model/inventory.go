package model

type InventoryRequest struct {
	EventID  string `json:"event_id"`
	Quantity int    `json:"quantity"`
}

type InventoryResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Remaining int    `json:"remaining"`
}

type InventoryReset struct {
	EventID string `json:"event_id"`
	Seats   int    `json:"seats"`
}

type InventoryListing struct {
	Status string         `json:"status"`
	Seats  map[string]int `json:"seats"`
}
