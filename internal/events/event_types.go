package events

import (
	"time"

	"github.com/spec-kit/maintenance-core/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketUpdated   EventType = "ticket_updated"
	EventPartReserved    EventType = "part_reserved"
	EventPartReleased    EventType = "part_released"
	EventPartIssued      EventType = "part_issued"
	EventStockAdjusted   EventType = "stock_adjusted"
	EventStockLow        EventType = "stock_low"
	EventPOCreated       EventType = "po_created"
	EventPOReceived      EventType = "po_received"
	EventPOCanceled      EventType = "po_canceled"
	EventDatasetReset    EventType = "dataset_reset"
)

// Event represents a domain event emitted by the store.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID   string              `json:"ticket_id"`
	RoomNumber string              `json:"room_number"`
	Urgency    domain.Urgency      `json:"urgency"`
	Impact     domain.Impact       `json:"impact"`
	Priority   int                 `json:"priority"`
	Status     domain.TicketStatus `json:"status"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	TicketID  string              `json:"ticket_id"`
	Action    string              `json:"action"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Priority  int                 `json:"priority"`
}

// StockChangedPayload describes the inventory side of a movement. It is
// shared by reserve/release/issue/adjust events so subscribers can watch
// availability without querying the store.
type StockChangedPayload struct {
	MovementID string  `json:"movement_id"`
	PartID     string  `json:"part_id"`
	PartName   string  `json:"part_name"`
	Qty        int     `json:"qty"`
	TicketID   *string `json:"ticket_id,omitempty"`
	OnHand     int     `json:"on_hand"`
	Reserved   int     `json:"reserved"`
	Available  int     `json:"available"`
	MinStock   int     `json:"min_stock"`
}

// StockLowPayload carries a replenishment suggestion.
type StockLowPayload struct {
	PartID       string `json:"part_id"`
	PartName     string `json:"part_name"`
	Available    int    `json:"available"`
	MinStock     int    `json:"min_stock"`
	SuggestedQty int    `json:"suggested_qty"`
}

// PurchaseOrderPayload payload for PO lifecycle events.
type PurchaseOrderPayload struct {
	POID     string                     `json:"po_id"`
	Status   domain.PurchaseOrderStatus `json:"status"`
	Vendor   string                     `json:"vendor"`
	Items    []domain.PurchaseOrderItem `json:"items"`
	TicketID *string                    `json:"ticket_id,omitempty"`
}
