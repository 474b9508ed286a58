package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product type enumeration.  Each bookable product belongs to exactly one
// vertical; the type determines which pricing rules apply (e.g. transfer
// surcharges and round-trip discounts only apply to TRANSFER products).
const (
	ProductTour      = "TOUR"
	ProductEvent     = "EVENT"
	ProductTransfer  = "TRANSFER"
	ProductCarRental = "CAR_RENTAL"
)

// Product represents a bookable offering (a tour, an event, a transfer
// route or a car-rental class).  A product owns many inventory units, one
// per date × variant.  Prices are stored as DECIMAL columns and carried as
// decimal.Decimal to avoid float rounding drift.
//
// Fields:
//  ID              – primary key identifier.
//  Type            – one of the Product* constants above.
//  Name            – display name, unique per type.
//  Description     – optional long description.
//  BasePrice       – price for one adult participant.
//  ChildFactor     – multiplier applied to BasePrice for children.
//  InfantFactor    – multiplier applied to BasePrice for infants.
//  EarlySurcharge  – per-seat surcharge for transfer pickups before 06:00.
//  NightSurcharge  – per-seat surcharge for transfer pickups at/after 22:00.
//  RoundTripFactor – factor applied to the transfer leg subtotal on round
//                    trips (e.g. 0.9 = 10% discount); 1 means no discount.
//  IsActive        – whether the product is offered to customers.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Product struct {
	ID              uint64          // products.id
	Type            string          // products.type
	Name            string          // products.name
	Description     *string         // products.description (nullable)
	BasePrice       decimal.Decimal // products.base_price
	ChildFactor     decimal.Decimal // products.child_factor
	InfantFactor    decimal.Decimal // products.infant_factor
	EarlySurcharge  decimal.Decimal // products.early_surcharge
	NightSurcharge  decimal.Decimal // products.night_surcharge
	RoundTripFactor decimal.Decimal // products.round_trip_factor
	IsActive        bool            // products.is_active
	CreatedAt       time.Time       // products.created_at
	UpdatedAt       time.Time       // products.updated_at
}

// ProductOption is an optional add-on that can be attached to a cart item
// (e.g. lunch on a tour, child seat in a transfer).  Options are priced
// flat per booking.
//
// Fields:
//  ID        – primary key identifier.
//  ProductID – product the option belongs to.
//  Name      – option display name, unique per product.
//  Price     – flat price added to the booking total.
//  IsActive  – whether the option can still be selected.
type ProductOption struct {
	ID        uint64          // product_options.id
	ProductID uint64          // product_options.product_id
	Name      string          // product_options.name
	Price     decimal.Decimal // product_options.price
	IsActive  bool            // product_options.is_active
}
