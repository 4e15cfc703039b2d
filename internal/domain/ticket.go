package domain

import "time"

// TicketStatus enumerates lifecycle states for maintenance tickets.
type TicketStatus string

const (
	TicketStatusOpen        TicketStatus = "OPEN"
	TicketStatusInProgress  TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingPart TicketStatus = "WAITING_PART"
	TicketStatusVendor      TicketStatus = "VENDOR"
	TicketStatusResolved    TicketStatus = "RESOLVED"
	TicketStatusVerified    TicketStatus = "VERIFIED"
)

// IsTerminal reports whether no further status change is permitted.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusVerified
}

// Urgency classifies how quickly a reported issue needs attention.
type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

// Impact classifies how badly the issue affects use of the room.
type Impact string

const (
	ImpactNone     Impact = "NONE"
	ImpactAnnoying Impact = "ANNOYING"
	ImpactBlocking Impact = "BLOCKING"
)

// AuditEvent is one append-only history record on a ticket.
type AuditEvent struct {
	Date   time.Time `json:"date"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
}

// Ticket is the aggregate for a reported maintenance issue.
type Ticket struct {
	ID          string       `json:"id"`
	RoomNumber  string       `json:"room_number"`
	IsOccupied  bool         `json:"is_occupied"`
	Asset       string       `json:"asset"`
	IssueType   string       `json:"issue_type"`
	Description string       `json:"description"`
	Urgency     Urgency      `json:"urgency"`
	Impact      Impact       `json:"impact"`
	Status      TicketStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	CreatedBy   Role         `json:"created_by"`
	AssignedTo  *string      `json:"assigned_to,omitempty"`
	Notes       []string     `json:"notes"`
	History     []AuditEvent `json:"history"`

	// Inventory linkage, populated by reservations. PartID and PartName
	// survive a release for traceability.
	NeedsPart   bool    `json:"needs_part"`
	PartID      *string `json:"part_id,omitempty"`
	PartName    *string `json:"part_name,omitempty"`
	PartQty     int     `json:"part_qty"`
	NeedsVendor bool    `json:"needs_vendor"`
	VendorType  *string `json:"vendor_type,omitempty"`
	POID        *string `json:"po_id,omitempty"`

	VerifiedBy *string    `json:"verified_by,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`

	// PriorityScore is derived; it is recomputed on every mutation and is
	// never settable by callers.
	PriorityScore int `json:"priority_score"`
}

// HasReservation reports whether the ticket currently holds reserved stock.
func (t *Ticket) HasReservation() bool {
	return t.NeedsPart && t.PartID != nil && t.PartQty > 0
}

// AppendAudit records an audit event on the ticket history.
func (t *Ticket) AppendAudit(date time.Time, actor, action string) {
	t.History = append(t.History, AuditEvent{Date: date, Actor: actor, Action: action})
}
