package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a provisional booking: adding an item to the cart reserves
// capacity on its inventory unit until ExpiresAt.  The sweeper releases
// the reservation and deletes the row once the hold expires; checkout
// converts active items into order items, transferring the reservation to
// the order.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – owner of the cart item.
//  ProductID     – booked product.
//  UnitID        – inventory unit the capacity was reserved on.
//  Adults        – number of adult participants.
//  Children      – number of child participants.
//  Infants       – number of infant participants (do not consume capacity).
//  Quantity      – seats reserved against the unit (adults + children).
//  RoundTrip     – transfer bookings only: both directions requested.
//  PickupTime    – transfer bookings only: "HH:MM" pickup, drives surcharges.
//  PriceSnapshot – quoted total at the time the item was added.
//  HoldToken     – opaque token returned to the client for correlation.
//  ExpiresAt     – when the capacity hold lapses.
//  CreatedAt     – creation timestamp.
type CartItem struct {
	ID            uint64          // cart_items.id
	UserID        uint64          // cart_items.user_id
	ProductID     uint64          // cart_items.product_id
	UnitID        uint64          // cart_items.unit_id
	Adults        uint32          // cart_items.adults
	Children      uint32          // cart_items.children
	Infants       uint32          // cart_items.infants
	Quantity      uint32          // cart_items.quantity
	RoundTrip     bool            // cart_items.round_trip
	PickupTime    *string         // cart_items.pickup_time (nullable)
	PriceSnapshot decimal.Decimal // cart_items.price_snapshot
	HoldToken     string          // cart_items.hold_token
	ExpiresAt     time.Time       // cart_items.expires_at
	CreatedAt     time.Time       // cart_items.created_at

	// OptionIDs holds the selected product options, stored in the
	// cart_item_options join table.
	OptionIDs []uint64
}
