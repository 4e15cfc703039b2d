package store

import (
	"context"
	"time"

	"github.com/spec-kit/maintenance-core/internal/domain"
	"github.com/spec-kit/maintenance-core/internal/priority"
	"github.com/spec-kit/maintenance-core/internal/seed"
)

// State is the owned aggregate: every collection the command surface
// mutates lives here and is only touched under the store mutex.
type State struct {
	Tickets        []domain.Ticket        `json:"tickets"`
	Parts          []domain.InventoryPart `json:"parts"`
	Movements      []domain.PartMovement  `json:"movements"`
	PurchaseOrders []domain.PurchaseOrder `json:"purchase_orders"`
}

// Snapshotter persists and restores the aggregate. Load returns the last
// saved state; callers fall back to seed data on any error.
type Snapshotter interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}

// SeedState builds the built-in dataset with ticket scores computed at now.
func SeedState(now time.Time) *State {
	tickets := seed.Tickets(now)
	for i := range tickets {
		tickets[i].PriorityScore = priority.Score(&tickets[i], now)
	}
	return &State{
		Tickets:        tickets,
		Parts:          seed.Parts(now),
		Movements:      []domain.PartMovement{},
		PurchaseOrders: []domain.PurchaseOrder{},
	}
}

// Clone returns a deep copy safe to hand to the snapshot writer while the
// original keeps mutating.
func (st *State) Clone() *State {
	out := &State{
		Tickets:        make([]domain.Ticket, len(st.Tickets)),
		Parts:          make([]domain.InventoryPart, len(st.Parts)),
		Movements:      make([]domain.PartMovement, len(st.Movements)),
		PurchaseOrders: make([]domain.PurchaseOrder, len(st.PurchaseOrders)),
	}
	for i := range st.Tickets {
		out.Tickets[i] = cloneTicket(&st.Tickets[i])
	}
	for i := range st.Parts {
		out.Parts[i] = clonePart(&st.Parts[i])
	}
	for i := range st.Movements {
		out.Movements[i] = cloneMovement(&st.Movements[i])
	}
	for i := range st.PurchaseOrders {
		out.PurchaseOrders[i] = clonePurchaseOrder(&st.PurchaseOrders[i])
	}
	return out
}

func (st *State) findTicket(id string) *domain.Ticket {
	for i := range st.Tickets {
		if st.Tickets[i].ID == id {
			return &st.Tickets[i]
		}
	}
	return nil
}

func (st *State) findPart(id string) *domain.InventoryPart {
	for i := range st.Parts {
		if st.Parts[i].ID == id {
			return &st.Parts[i]
		}
	}
	return nil
}

func (st *State) findPurchaseOrder(id string) *domain.PurchaseOrder {
	for i := range st.PurchaseOrders {
		if st.PurchaseOrders[i].ID == id {
			return &st.PurchaseOrders[i]
		}
	}
	return nil
}

func cloneTicket(t *domain.Ticket) domain.Ticket {
	out := *t
	out.Notes = append([]string(nil), t.Notes...)
	out.History = append([]domain.AuditEvent(nil), t.History...)
	out.AssignedTo = cloneStrPtr(t.AssignedTo)
	out.PartID = cloneStrPtr(t.PartID)
	out.PartName = cloneStrPtr(t.PartName)
	out.VendorType = cloneStrPtr(t.VendorType)
	out.POID = cloneStrPtr(t.POID)
	out.VerifiedBy = cloneStrPtr(t.VerifiedBy)
	if t.ClosedAt != nil {
		closed := *t.ClosedAt
		out.ClosedAt = &closed
	}
	return out
}

func clonePart(p *domain.InventoryPart) domain.InventoryPart {
	out := *p
	out.Vendor = cloneStrPtr(p.Vendor)
	if p.LeadTimeDays != nil {
		lead := *p.LeadTimeDays
		out.LeadTimeDays = &lead
	}
	return out
}

func cloneMovement(m *domain.PartMovement) domain.PartMovement {
	out := *m
	out.Note = cloneStrPtr(m.Note)
	out.TicketID = cloneStrPtr(m.TicketID)
	out.POID = cloneStrPtr(m.POID)
	return out
}

func clonePurchaseOrder(po *domain.PurchaseOrder) domain.PurchaseOrder {
	out := *po
	out.Items = append([]domain.PurchaseOrderItem(nil), po.Items...)
	out.Notes = cloneStrPtr(po.Notes)
	if po.ETADate != nil {
		eta := *po.ETADate
		out.ETADate = &eta
	}
	return out
}

func cloneStrPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
