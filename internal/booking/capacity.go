// Package booking contains the capacity accounting, order state machine and
// pricing rules shared by all product verticals.  Every reserve, confirm and
// release in the system funnels through the functions in this package so the
// counter invariants hold no matter which handler or command triggered the
// mutation.
package booking

import (
	"errors"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// Sentinel errors surfaced to handlers, which translate them into the
// machine-readable API error codes.
var (
	// ErrInvalidQuantity is returned when a caller passes a zero quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInsufficientCapacity is returned when a reservation would exceed
	// the unit's available quantity.  The unit is left untouched.
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	// ErrConfirmExceedsReserved is returned when a confirmation asks for
	// more quantity than is currently reserved on the unit.
	ErrConfirmExceedsReserved = errors.New("confirm exceeds reserved quantity")
)

// CheckAvailability reports whether the unit can accommodate qty more
// seats.  It has no side effects.
func CheckAvailability(u *model.InventoryUnit, qty uint32) bool {
	return qty > 0 && qty <= u.Available()
}

// Reserve moves qty from available to reserved.  It fails without mutating
// the unit when qty is zero or exceeds the available quantity, so a rejected
// request never leaves partial state behind.
func Reserve(u *model.InventoryUnit, qty uint32) error {
	if qty == 0 {
		return ErrInvalidQuantity
	}
	if !CheckAvailability(u, qty) {
		return ErrInsufficientCapacity
	}
	u.ReservedCount += qty
	return nil
}

// Confirm moves qty from reserved to booked.  The overall usage of the unit
// does not change, only the split between the two counters.
func Confirm(u *model.InventoryUnit, qty uint32) error {
	if qty == 0 {
		return ErrInvalidQuantity
	}
	if qty > u.ReservedCount {
		return ErrConfirmExceedsReserved
	}
	u.ReservedCount -= qty
	u.BookedCount += qty
	return nil
}

// ReleaseReserved returns reserved quantity to the available pool.  The
// decrement is clamped at zero so releasing more than is reserved (e.g. a
// second cancellation of the same hold) is a harmless no-op.  It returns the
// quantity actually released.
func ReleaseReserved(u *model.InventoryUnit, qty uint32) uint32 {
	if qty > u.ReservedCount {
		qty = u.ReservedCount
	}
	u.ReservedCount -= qty
	return qty
}

// ReleaseBooked returns booked quantity to the available pool, clamped at
// zero like ReleaseReserved.  It returns the quantity actually released.
func ReleaseBooked(u *model.InventoryUnit, qty uint32) uint32 {
	if qty > u.BookedCount {
		qty = u.BookedCount
	}
	u.BookedCount -= qty
	return qty
}
