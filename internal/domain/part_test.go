package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailableClampsAtZero(t *testing.T) {
	p := InventoryPart{StockOnHand: 2, StockReserved: 5}
	assert.Zero(t, p.Available())

	p = InventoryPart{StockOnHand: 5, StockReserved: 2}
	assert.Equal(t, 3, p.Available())
}

func TestBelowMin(t *testing.T) {
	p := InventoryPart{StockOnHand: 3, StockReserved: 2, MinStock: 2}
	assert.True(t, p.BelowMin())

	p.StockReserved = 0
	assert.False(t, p.BelowMin())
}

func TestSuggestedReorderQty(t *testing.T) {
	tests := []struct {
		name string
		part InventoryPart
		want int
	}{
		{"empty shelf small min", InventoryPart{MinStock: 1}, 2},
		{"empty shelf larger min", InventoryPart{MinStock: 4}, 8},
		{"partially stocked", InventoryPart{StockOnHand: 3, MinStock: 4}, 5},
		{"well stocked still suggests one", InventoryPart{StockOnHand: 20, MinStock: 2}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.part.SuggestedReorderQty())
		})
	}
}

func TestTicketStatusTerminal(t *testing.T) {
	assert.True(t, TicketStatusVerified.IsTerminal())
	assert.False(t, TicketStatusResolved.IsTerminal())
	assert.False(t, TicketStatusOpen.IsTerminal())
}
