package domain

// InventoryPart is a stocked maintenance component.
type InventoryPart struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`

	// StockOnHand counts units physically present; StockReserved counts
	// units committed to tickets. Both are clamped at zero, never negative.
	StockOnHand   int `json:"stock_on_hand"`
	StockReserved int `json:"stock_reserved"`
	MinStock      int `json:"min_stock"`

	Vendor       *string `json:"vendor,omitempty"`
	LeadTimeDays *int    `json:"lead_time_days,omitempty"`
}

// Available returns the quantity free to reserve.
func (p *InventoryPart) Available() int {
	avail := p.StockOnHand - p.StockReserved
	if avail < 0 {
		return 0
	}
	return avail
}

// BelowMin reports whether available stock has fallen under the reorder
// threshold.
func (p *InventoryPart) BelowMin() bool {
	return p.Available() < p.MinStock
}

// SuggestedReorderQty computes the default replenishment quantity:
// enough to bring availability up to max(2, 2*minStock), at least one unit.
func (p *InventoryPart) SuggestedReorderQty() int {
	target := 2 * p.MinStock
	if target < 2 {
		target = 2
	}
	qty := target - p.Available()
	if qty < 1 {
		return 1
	}
	return qty
}
