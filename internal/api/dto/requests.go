package dto

import (
	"github.com/spec-kit/maintenance-core/internal/domain"
)

// SessionRequest selects a role label for a new session.
type SessionRequest struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// SessionResponse carries the signed session token.
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	Actor     domain.Actor `json:"actor"`
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	RoomNumber  string         `json:"room_number"`
	IsOccupied  bool           `json:"is_occupied"`
	Asset       string         `json:"asset"`
	IssueType   string         `json:"issue_type"`
	Description string         `json:"description"`
	Urgency     domain.Urgency `json:"urgency"`
	Impact      domain.Impact  `json:"impact"`
	AssignedTo  *string        `json:"assigned_to"`
}

// UpdateTicketRequest payload; nil fields are untouched. Action becomes the
// audit label for the change.
type UpdateTicketRequest struct {
	Status      *domain.TicketStatus `json:"status"`
	Urgency     *domain.Urgency      `json:"urgency"`
	Impact      *domain.Impact       `json:"impact"`
	IsOccupied  *bool                `json:"is_occupied"`
	Description *string              `json:"description"`
	AssignedTo  *string              `json:"assigned_to"`
	AddNote     *string              `json:"add_note"`
	NeedsVendor *bool                `json:"needs_vendor"`
	VendorType  *string              `json:"vendor_type"`
	Action      string               `json:"action"`
}

// ReservePartRequest payload.
type ReservePartRequest struct {
	TicketID string `json:"ticket_id"`
	PartID   string `json:"part_id"`
	Qty      int    `json:"qty"`
}

// ReleaseReservationRequest payload.
type ReleaseReservationRequest struct {
	TicketID string  `json:"ticket_id"`
	Note     *string `json:"note"`
}

// IssuePartRequest payload.
type IssuePartRequest struct {
	TicketID string  `json:"ticket_id"`
	Note     *string `json:"note"`
}

// AdjustStockRequest payload. Delta accepts fractional input and is
// truncated to an integer before it reaches the store.
type AdjustStockRequest struct {
	PartID string  `json:"part_id"`
	Delta  float64 `json:"delta"`
	Note   *string `json:"note"`
}

// CreatePurchaseOrderRequest payload.
type CreatePurchaseOrderRequest struct {
	PartID   string  `json:"part_id"`
	Qty      int     `json:"qty"`
	Vendor   *string `json:"vendor"`
	ETADays  *int    `json:"eta_days"`
	TicketID *string `json:"ticket_id"`
	Notes    *string `json:"notes"`
}

// RunScenarioRequest payload.
type RunScenarioRequest struct {
	Name string `json:"name"`
}
