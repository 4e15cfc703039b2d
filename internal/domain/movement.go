package domain

import "time"

// MovementType tags the stock effect of a ledger entry.
type MovementType string

const (
	MovementReserve    MovementType = "RESERVE"
	MovementRelease    MovementType = "RELEASE"
	MovementIssue      MovementType = "ISSUE"
	MovementReceive    MovementType = "RECEIVE"
	MovementAdjust     MovementType = "ADJUST"
	MovementPOCreated  MovementType = "PO_CREATED"
	MovementPOReceived MovementType = "PO_RECEIVED"
)

// PartMovement is one immutable entry in the stock ledger. Qty is always
// positive; the sign of the effect is implied by Type. ADJUST entries carry
// the absolute quantity, with the signed delta recorded in the note.
type PartMovement struct {
	ID       string       `json:"id"`
	PartID   string       `json:"part_id"`
	Type     MovementType `json:"type"`
	Qty      int          `json:"qty"`
	Date     time.Time    `json:"date"`
	User     string       `json:"user"`
	Note     *string      `json:"note,omitempty"`
	TicketID *string      `json:"ticket_id,omitempty"`
	POID     *string      `json:"po_id,omitempty"`
}
