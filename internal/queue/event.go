// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderItemLine summarizes one booked slot inside a confirmed order.
type OrderItemLine struct {
	ProductID   uint64 `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductType string `json:"product_type"`
	UnitDate    string `json:"unit_date"`
	Variant     string `json:"variant"`
	Quantity    uint32 `json:"quantity"`
	Price       string `json:"price"`
}

// OrderConfirmedEvent is published when an order is successfully paid.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type OrderConfirmedEvent struct {
	OrderID     uint64          `json:"order_id"`
	Reference   string          `json:"reference"`
	UserID      uint64          `json:"user_id"`
	Items       []OrderItemLine `json:"items"`
	TotalAmount string          `json:"total_amount"`
	ConfirmedAt string          `json:"confirmed_at"`
}
