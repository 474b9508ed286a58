package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventoryUnitAvailable(t *testing.T) {
	tests := []struct {
		name                     string
		total, reserved, booked  uint32
		want                     uint32
	}{
		{name: "empty unit", total: 10, want: 10},
		{name: "partially used", total: 10, reserved: 3, booked: 2, want: 5},
		{name: "full", total: 10, reserved: 5, booked: 5, want: 0},
		{name: "over capacity clamps to zero", total: 10, reserved: 8, booked: 8, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := InventoryUnit{TotalCapacity: tt.total, ReservedCount: tt.reserved, BookedCount: tt.booked}
			assert.Equal(t, tt.want, u.Available())
		})
	}
}
