package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

func unit(total, reserved, booked uint32) model.InventoryUnit {
	return model.InventoryUnit{TotalCapacity: total, ReservedCount: reserved, BookedCount: booked}
}

func TestReserve(t *testing.T) {
	tests := []struct {
		name    string
		unit    model.InventoryUnit
		qty     uint32
		wantErr error
	}{
		{name: "fits exactly", unit: unit(10, 0, 0), qty: 10},
		{name: "partial", unit: unit(10, 3, 2), qty: 5},
		{name: "zero quantity", unit: unit(10, 0, 0), qty: 0, wantErr: ErrInvalidQuantity},
		{name: "exceeds available", unit: unit(10, 3, 2), qty: 6, wantErr: ErrInsufficientCapacity},
		{name: "full unit", unit: unit(10, 5, 5), qty: 1, wantErr: ErrInsufficientCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.unit
			err := Reserve(&tt.unit, tt.qty)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				// A failed reserve must not touch the counters.
				assert.Equal(t, before, tt.unit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, before.ReservedCount+tt.qty, tt.unit.ReservedCount)
			assert.Equal(t, before.BookedCount, tt.unit.BookedCount)
		})
	}
}

func TestCheckAvailability(t *testing.T) {
	u := unit(10, 3, 2)
	assert.True(t, CheckAvailability(&u, 5))
	assert.False(t, CheckAvailability(&u, 6))
	assert.False(t, CheckAvailability(&u, 0))
	// No side effects.
	assert.Equal(t, unit(10, 3, 2), u)
}

func TestConfirm(t *testing.T) {
	u := unit(10, 4, 0)
	require.NoError(t, Confirm(&u, 3))
	assert.Equal(t, uint32(1), u.ReservedCount)
	assert.Equal(t, uint32(3), u.BookedCount)
	assert.Equal(t, uint32(6), u.Available())

	require.ErrorIs(t, Confirm(&u, 2), ErrConfirmExceedsReserved)
	require.ErrorIs(t, Confirm(&u, 0), ErrInvalidQuantity)
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	u := unit(15, 0, 0)
	before := u.Available()

	require.NoError(t, Reserve(&u, 7))
	assert.Equal(t, before-7, u.Available())

	released := ReleaseReserved(&u, 7)
	assert.Equal(t, uint32(7), released)
	assert.Equal(t, before, u.Available())
}

func TestReleaseClampedAtZero(t *testing.T) {
	u := unit(10, 2, 3)

	// First release frees what is held, the second is a no-op.
	assert.Equal(t, uint32(2), ReleaseReserved(&u, 5))
	assert.Equal(t, uint32(0), ReleaseReserved(&u, 5))
	assert.Equal(t, uint32(0), u.ReservedCount)

	assert.Equal(t, uint32(3), ReleaseBooked(&u, 99))
	assert.Equal(t, uint32(0), ReleaseBooked(&u, 1))
	assert.Equal(t, uint32(0), u.BookedCount)
	assert.Equal(t, uint32(10), u.Available())
}

// TestCounterBounds walks a full hold lifecycle and checks the counter
// invariants after every step: counters never go negative and
// reserved + booked never exceeds total capacity.
func TestCounterBounds(t *testing.T) {
	u := unit(8, 0, 0)
	check := func() {
		t.Helper()
		assert.LessOrEqual(t, u.ReservedCount+u.BookedCount, u.TotalCapacity)
		assert.Equal(t, u.TotalCapacity-u.ReservedCount-u.BookedCount, u.Available())
	}

	require.NoError(t, Reserve(&u, 5))
	check()
	require.NoError(t, Confirm(&u, 3))
	check()
	ReleaseReserved(&u, 2)
	check()
	require.NoError(t, Reserve(&u, 4))
	check()
	require.ErrorIs(t, Reserve(&u, 2), ErrInsufficientCapacity)
	check()
	ReleaseBooked(&u, 3)
	check()
	ReleaseReserved(&u, 100)
	check()
	assert.Equal(t, uint32(8), u.Available())
}
