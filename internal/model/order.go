package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status enumeration.  The lifecycle is:
//
//	PENDING ──confirm──▶ CONFIRMED ──pay──▶ PAID ──complete──▶ COMPLETED
//	   │                     │                │
//	   └───────cancel────────┴────cancel──────┘──▶ CANCELLED
//
// Paying a PENDING order confirms it implicitly.  COMPLETED and CANCELLED
// are terminal.  Capacity moves reserved→booked on confirmation and is
// released back to available on cancellation.
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderPaid      = "PAID"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

// Order aggregates the items checked out from a cart in one transaction.
// TotalAmount is a denormalized snapshot of the sum of item prices at
// checkout time; it is never recomputed afterwards.
//
// Fields:
//  ID          – primary key identifier.
//  Reference   – external reference code (UUID) shown to the customer.
//  UserID      – customer who placed the order.
//  Status      – one of the Order* constants above.
//  TotalAmount – denormalized total price snapshot.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Order struct {
	ID          uint64          // orders.id
	Reference   string          // orders.reference
	UserID      uint64          // orders.user_id
	Status      string          // orders.status
	TotalAmount decimal.Decimal // orders.total_amount
	CreatedAt   time.Time       // orders.created_at
	UpdatedAt   time.Time       // orders.updated_at
}

// OrderItem records one booked slot inside an order.  Its business content
// (participants, price) is immutable after creation; only capacity side
// effects of order status transitions reference it.
//
// Fields:
//  ID        – primary key identifier.
//  OrderID   – owning order.
//  ProductID – booked product.
//  UnitID    – inventory unit the capacity is held on.
//  Adults    – adult participant count.
//  Children  – child participant count.
//  Infants   – infant participant count.
//  Quantity  – seats held against the unit.
//  Price     – denormalized price snapshot for this item.
//  CreatedAt – creation timestamp.
type OrderItem struct {
	ID        uint64          // order_items.id
	OrderID   uint64          // order_items.order_id
	ProductID uint64          // order_items.product_id
	UnitID    uint64          // order_items.unit_id
	Adults    uint32          // order_items.adults
	Children  uint32          // order_items.children
	Infants   uint32          // order_items.infants
	Quantity  uint32          // order_items.quantity
	Price     decimal.Decimal // order_items.price
	CreatedAt time.Time       // order_items.created_at
}
