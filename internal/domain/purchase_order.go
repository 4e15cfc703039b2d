package domain

import "time"

// PurchaseOrderStatus enumerates replenishment order states.
type PurchaseOrderStatus string

const (
	POStatusDraft    PurchaseOrderStatus = "DRAFT"
	POStatusOrdered  PurchaseOrderStatus = "ORDERED"
	POStatusReceived PurchaseOrderStatus = "RECEIVED"
	POStatusCanceled PurchaseOrderStatus = "CANCELED"
)

// PurchaseOrderItem is one line of a replenishment order.
type PurchaseOrderItem struct {
	PartID   string `json:"part_id"`
	PartName string `json:"part_name"`
	Qty      int    `json:"qty"`
	Unit     string `json:"unit"`
}

// PurchaseOrder is a replenishment request. It transitions to RECEIVED or
// CANCELED at most once and is immutable afterwards.
type PurchaseOrder struct {
	ID        string              `json:"id"`
	Status    PurchaseOrderStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	CreatedBy string              `json:"created_by"`
	Vendor    string              `json:"vendor"`
	ETADate   *time.Time          `json:"eta_date,omitempty"`
	Items     []PurchaseOrderItem `json:"items"`
	Notes     *string             `json:"notes,omitempty"`
}
