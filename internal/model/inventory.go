package model

import "time"

// InventoryUnit is a single bookable slot: a tour variant on a date, an
// event performance section, a transfer vehicle on a date or a car-rental
// window starting on a date.  It is the only place capacity is accounted
// for.  The available quantity is always derived, never stored, so the
// three counters cannot drift apart:
//
//	available = TotalCapacity - ReservedCount - BookedCount
//
// ReservedCount tracks provisional cart holds (TTL-bound, released by the
// sweeper when they expire) and pending orders.  BookedCount tracks
// confirmed/paid orders.  All mutations of the two counters go through the
// booking package and are persisted inside a transaction holding a row
// lock on this record.
//
// Fields:
//  ID            – primary key identifier.
//  ProductID     – owning product.
//  UnitDate      – the date of the slot (UTC midnight).
//  Variant       – sub-unit label (tour variant, event section, vehicle
//                  class); "STANDARD" when the product has no variants.
//  TotalCapacity – fixed ceiling set by an administrator.
//  ReservedCount – quantity provisionally held, not yet paid.
//  BookedCount   – quantity confirmed/paid.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type InventoryUnit struct {
	ID            uint64    // inventory_units.id
	ProductID     uint64    // inventory_units.product_id
	UnitDate      time.Time // inventory_units.unit_date
	Variant       string    // inventory_units.variant
	TotalCapacity uint32    // inventory_units.total_capacity
	ReservedCount uint32    // inventory_units.reserved_count
	BookedCount   uint32    // inventory_units.booked_count
	CreatedAt     time.Time // inventory_units.created_at
	UpdatedAt     time.Time // inventory_units.updated_at
}

// Available returns the derived free quantity.  It is zero when the
// counters already consume the full capacity.
func (u *InventoryUnit) Available() uint32 {
	used := u.ReservedCount + u.BookedCount
	if used >= u.TotalCapacity {
		return 0
	}
	return u.TotalCapacity - used
}
