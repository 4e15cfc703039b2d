package store

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/maintenance-core/internal/domain"
	"github.com/spec-kit/maintenance-core/internal/events"
	"github.com/spec-kit/maintenance-core/internal/priority"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

const defaultLeadTimeDays = 3

// PurchaseOrderInput describes a replenishment request. Qty below one falls
// back to the part's suggested reorder quantity; ETADays falls back to the
// part lead time, then to the default.
type PurchaseOrderInput struct {
	PartID   string
	Qty      int
	Vendor   *string
	ETADays  *int
	TicketID *string
	Notes    *string
}

// CreatePurchaseOrder opens an ORDERED replenishment order with one line
// item. When a ticket id is supplied the order is linked onto the ticket as
// a side reference; ticket status does not change.
func (s *Store) CreatePurchaseOrder(ctx context.Context, actor domain.Actor, input PurchaseOrderInput) (*domain.PurchaseOrder, error) {
	if !actor.CanManage() {
		return nil, util.NewPermissionDenied("purchase orders require a management role")
	}

	s.mu.Lock()
	part := s.state.findPart(input.PartID)
	if part == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("part", input.PartID)
	}

	now := s.now()
	qty := input.Qty
	if qty < 1 {
		qty = part.SuggestedReorderQty()
	}
	etaDays := defaultLeadTimeDays
	if input.ETADays != nil {
		etaDays = *input.ETADays
	} else if part.LeadTimeDays != nil {
		etaDays = *part.LeadTimeDays
	}
	eta := now.Add(time.Duration(etaDays) * 24 * time.Hour)

	vendor := "TBD"
	if input.Vendor != nil && *input.Vendor != "" {
		vendor = *input.Vendor
	} else if part.Vendor != nil {
		vendor = *part.Vendor
	}

	po := domain.PurchaseOrder{
		ID:        newKey("PO"),
		Status:    domain.POStatusOrdered,
		CreatedAt: now,
		CreatedBy: actor.Name,
		Vendor:    vendor,
		ETADate:   &eta,
		Items: []domain.PurchaseOrderItem{{
			PartID:   part.ID,
			PartName: part.Name,
			Qty:      qty,
			Unit:     part.Unit,
		}},
		Notes: input.Notes,
	}
	s.state.PurchaseOrders = append(s.state.PurchaseOrders, po)

	s.appendMovement(domain.PartMovement{
		PartID:   part.ID,
		Type:     domain.MovementPOCreated,
		Qty:      qty,
		User:     actor.Name,
		TicketID: input.TicketID,
		POID:     &po.ID,
	})

	if input.TicketID != nil {
		if ticket := s.state.findTicket(*input.TicketID); ticket != nil {
			poID := po.ID
			ticket.POID = &poID
			ticket.AppendAudit(now, actor.Name, fmt.Sprintf("Purchase order %s created for %s x%d", po.ID, part.Name, qty))
			ticket.PriorityScore = priority.Score(ticket, now)
		}
	}

	out := clonePurchaseOrder(&po)
	snap, seq := s.cloneForSnapshot()
	s.mu.Unlock()

	s.afterMutation(ctx, seq, snap, []events.Event{{
		Type:  events.EventPOCreated,
		Actor: actor,
		Payload: events.PurchaseOrderPayload{
			POID:     out.ID,
			Status:   out.Status,
			Vendor:   out.Vendor,
			Items:    out.Items,
			TicketID: input.TicketID,
		},
	}})
	return &out, nil
}

// ReceivePurchaseOrder credits every line item to on-hand stock and flips
// the order to RECEIVED. The already-received guard is what keeps a second
// call from double-crediting stock; it must stay.
func (s *Store) ReceivePurchaseOrder(ctx context.Context, actor domain.Actor, poID string) (*domain.PurchaseOrder, error) {
	if !actor.CanManage() {
		return nil, util.NewPermissionDenied("receiving purchase orders requires a management role")
	}

	s.mu.Lock()
	po := s.state.findPurchaseOrder(poID)
	if po == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("purchase order", poID)
	}
	if po.Status == domain.POStatusReceived {
		s.mu.Unlock()
		return nil, util.NewInvalidState("purchase order already received")
	}
	if po.Status == domain.POStatusCanceled {
		s.mu.Unlock()
		return nil, util.NewInvalidState("purchase order is canceled")
	}

	var evts []events.Event
	total := 0
	credited := 0
	summaryPartID := ""
	for _, item := range po.Items {
		part := s.state.findPart(item.PartID)
		if part == nil {
			// Part lines that no longer resolve are skipped; parts are
			// never deleted in normal operation.
			continue
		}
		if summaryPartID == "" {
			summaryPartID = part.ID
		}
		part.StockOnHand += item.Qty
		total += item.Qty
		credited++
		m := s.appendMovement(domain.PartMovement{
			PartID: part.ID,
			Type:   domain.MovementReceive,
			Qty:    item.Qty,
			User:   actor.Name,
			POID:   &po.ID,
		})
		evts = append(evts, events.Event{Type: events.EventStockAdjusted, Actor: actor, Payload: stockPayload(m, part)})
	}
	// The summary row names the first credited part; when no line was
	// credited there is nothing to summarize.
	if credited > 0 {
		note := fmt.Sprintf("received %d items", credited)
		s.appendMovement(domain.PartMovement{
			PartID: summaryPartID,
			Type:   domain.MovementPOReceived,
			Qty:    total,
			User:   actor.Name,
			Note:   &note,
			POID:   &po.ID,
		})
	}
	po.Status = domain.POStatusReceived

	out := clonePurchaseOrder(po)
	snap, seq := s.cloneForSnapshot()
	s.mu.Unlock()

	evts = append(evts, events.Event{
		Type:  events.EventPOReceived,
		Actor: actor,
		Payload: events.PurchaseOrderPayload{
			POID:   out.ID,
			Status: out.Status,
			Vendor: out.Vendor,
			Items:  out.Items,
		},
	})
	s.afterMutation(ctx, seq, snap, evts)
	return &out, nil
}

// CancelPurchaseOrder voids a draft or ordered PO. No stock effect.
func (s *Store) CancelPurchaseOrder(ctx context.Context, actor domain.Actor, poID string) (*domain.PurchaseOrder, error) {
	if !actor.CanManage() {
		return nil, util.NewPermissionDenied("canceling purchase orders requires a management role")
	}

	s.mu.Lock()
	po := s.state.findPurchaseOrder(poID)
	if po == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("purchase order", poID)
	}
	if po.Status != domain.POStatusDraft && po.Status != domain.POStatusOrdered {
		s.mu.Unlock()
		return nil, util.NewInvalidState("only draft or ordered purchase orders can be canceled")
	}
	po.Status = domain.POStatusCanceled

	out := clonePurchaseOrder(po)
	snap, seq := s.cloneForSnapshot()
	s.mu.Unlock()

	s.afterMutation(ctx, seq, snap, []events.Event{{
		Type:  events.EventPOCanceled,
		Actor: actor,
		Payload: events.PurchaseOrderPayload{
			POID:   out.ID,
			Status: out.Status,
			Vendor: out.Vendor,
			Items:  out.Items,
		},
	}})
	return &out, nil
}
