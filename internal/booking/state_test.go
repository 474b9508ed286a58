package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

func TestValidTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{model.OrderPending, model.OrderConfirmed},
		{model.OrderPending, model.OrderPaid},
		{model.OrderPending, model.OrderCancelled},
		{model.OrderConfirmed, model.OrderPaid},
		{model.OrderConfirmed, model.OrderCancelled},
		{model.OrderPaid, model.OrderCompleted},
		{model.OrderPaid, model.OrderCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, ValidTransition(tr.from, tr.to), "%s -> %s", tr.from, tr.to)
	}

	denied := []struct{ from, to string }{
		{model.OrderPending, model.OrderCompleted},
		{model.OrderConfirmed, model.OrderPending},
		{model.OrderCompleted, model.OrderCancelled},
		{model.OrderCancelled, model.OrderPending},
		{model.OrderCancelled, model.OrderPaid},
		{"UNKNOWN", model.OrderPaid},
	}
	for _, tr := range denied {
		assert.False(t, ValidTransition(tr.from, tr.to), "%s -> %s", tr.from, tr.to)
	}
}

func TestIsActiveStatus(t *testing.T) {
	for _, s := range []string{model.OrderPending, model.OrderConfirmed, model.OrderPaid} {
		assert.True(t, IsActiveStatus(s), s)
	}
	assert.False(t, IsActiveStatus(model.OrderCompleted))
	assert.False(t, IsActiveStatus(model.OrderCancelled))
}

func TestHoldsReserved(t *testing.T) {
	assert.True(t, HoldsReserved(model.OrderPending))
	assert.False(t, HoldsReserved(model.OrderConfirmed))
	assert.False(t, HoldsReserved(model.OrderPaid))
}
