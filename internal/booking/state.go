package booking

import (
	"errors"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// ErrInvalidTransition is returned when an order status change is not
// allowed by the state machine.
var ErrInvalidTransition = errors.New("invalid order status transition")

// transitions lists the allowed order status changes.  Paying a PENDING
// order is allowed directly; the capacity confirmation that CONFIRMED would
// have performed happens as part of the payment in that case.
var transitions = map[string][]string{
	model.OrderPending:   {model.OrderConfirmed, model.OrderPaid, model.OrderCancelled},
	model.OrderConfirmed: {model.OrderPaid, model.OrderCancelled},
	model.OrderPaid:      {model.OrderCompleted, model.OrderCancelled},
}

// ValidTransition reports whether an order may move from one status to
// another.  Terminal statuses (COMPLETED, CANCELLED) allow no transitions.
func ValidTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ActiveOrderStatuses are the non-terminal statuses that block a duplicate
// booking for the same user, product and date.  The duplicate-booking guard
// query in the order repository is built from this list so the definition of
// "active" lives in exactly one place.
var ActiveOrderStatuses = []string{model.OrderPending, model.OrderConfirmed, model.OrderPaid}

// IsActiveStatus reports whether a status counts against the
// duplicate-booking guard.
func IsActiveStatus(s string) bool {
	for _, a := range ActiveOrderStatuses {
		if a == s {
			return true
		}
	}
	return false
}

// HoldsReserved reports whether capacity for an order in the given status is
// still accounted under reserved_count (as opposed to booked_count).  Used
// on cancellation to decide which counter to release.
func HoldsReserved(status string) bool {
	return status == model.OrderPending
}
