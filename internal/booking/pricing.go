package booking

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Participants is the quantity breakdown of a booking request.  Infants
// travel on an adult's lap and do not consume capacity, but they may still
// carry a price factor.
type Participants struct {
	Adults   uint32
	Children uint32
	Infants  uint32
}

// Seats returns the capacity consumed by the participants: adults and
// children occupy a seat each, infants none.
func (p Participants) Seats() uint32 { return p.Adults + p.Children }

// Total returns the number of travellers including infants.
func (p Participants) Total() uint32 { return p.Adults + p.Children + p.Infants }

// PriceInput carries everything needed to quote one booking.  Surcharge is
// the per-seat time-of-day surcharge (zero for non-transfer products) and
// RoundTripFactor the discount factor applied to the doubled leg subtotal
// on round trips.
type PriceInput struct {
	Base            decimal.Decimal
	ChildFactor     decimal.Decimal
	InfantFactor    decimal.Decimal
	Participants    Participants
	Surcharge       decimal.Decimal
	Options         []decimal.Decimal
	RoundTrip       bool
	RoundTripFactor decimal.Decimal
}

var two = decimal.NewFromInt(2)

// Quote computes the total price for a booking.  The composition order is
// fixed: base participant prices, then per-seat surcharges, then flat
// options, then the round-trip discount.  Rounding to two decimal places
// happens exactly once, on the final amount.
func Quote(in PriceInput) decimal.Decimal {
	p := in.Participants

	// Participant subtotal: adults at base price, children and infants at
	// their respective factors.
	leg := in.Base.Mul(decimal.NewFromInt(int64(p.Adults)))
	leg = leg.Add(in.Base.Mul(in.ChildFactor).Mul(decimal.NewFromInt(int64(p.Children))))
	leg = leg.Add(in.Base.Mul(in.InfantFactor).Mul(decimal.NewFromInt(int64(p.Infants))))

	// Time-of-day surcharge applies per occupied seat.
	if in.Surcharge.IsPositive() {
		leg = leg.Add(in.Surcharge.Mul(decimal.NewFromInt(int64(p.Seats()))))
	}

	total := leg
	if in.RoundTrip {
		total = leg.Mul(two)
		if in.RoundTripFactor.IsPositive() {
			total = total.Mul(in.RoundTripFactor)
		}
	}

	// Options are flat per booking and are never discounted.
	for _, opt := range in.Options {
		total = total.Add(opt)
	}

	return total.Round(2)
}

// TransferSurcharge returns the per-seat surcharge for a transfer pickup
// time in "HH:MM" form.  Pickups before 06:00 attract the early surcharge,
// pickups at or after 22:00 the night surcharge.  An unparseable or daytime
// pickup yields zero.
func TransferSurcharge(pickup string, early, night decimal.Decimal) decimal.Decimal {
	parts := strings.SplitN(strings.TrimSpace(pickup), ":", 2)
	if len(parts) != 2 {
		return decimal.Zero
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return decimal.Zero
	}
	switch {
	case hour < 6:
		return early
	case hour >= 22:
		return night
	}
	return decimal.Zero
}
