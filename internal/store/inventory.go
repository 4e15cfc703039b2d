package store

import (
	"context"
	"fmt"

	"github.com/spec-kit/maintenance-core/internal/domain"
	"github.com/spec-kit/maintenance-core/internal/events"
	"github.com/spec-kit/maintenance-core/internal/priority"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

// ReservePart places a soft hold of qty units of a part for a ticket.
// A prior reservation held by the ticket is released first, so the ledger
// shows the RELEASE before the new RESERVE and reserved stock is never
// double-counted when a technician changes part choice.
func (s *Store) ReservePart(ctx context.Context, actor domain.Actor, ticketID, partID string, qty int) (*domain.Ticket, error) {
	if !actor.CanMaintain() {
		return nil, util.NewPermissionDenied("reserving parts requires a maintenance role")
	}
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	ticket := s.state.findTicket(ticketID)
	if ticket == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("ticket", ticketID)
	}
	if ticket.Status.IsTerminal() {
		s.mu.Unlock()
		return nil, util.NewInvalidState("ticket is verified; status is final")
	}
	part := s.state.findPart(partID)
	if part == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("part", partID)
	}
	if part.Available() < qty {
		available := part.Available()
		s.mu.Unlock()
		return nil, util.NewInsufficientStock(partID, available, qty)
	}

	now := s.now()
	var evts []events.Event

	if ticket.HasReservation() {
		prev := s.state.findPart(*ticket.PartID)
		if prev != nil {
			prev.StockReserved = clampNonNegative(prev.StockReserved - ticket.PartQty)
			note := "superseded by new reservation"
			m := s.appendMovement(domain.PartMovement{
				PartID:   prev.ID,
				Type:     domain.MovementRelease,
				Qty:      ticket.PartQty,
				User:     actor.Name,
				Note:     &note,
				TicketID: &ticket.ID,
			})
			evts = append(evts, events.Event{Type: events.EventPartReleased, Actor: actor, Payload: stockPayload(m, prev)})
		}
	}

	part.StockReserved += qty
	m := s.appendMovement(domain.PartMovement{
		PartID:   part.ID,
		Type:     domain.MovementReserve,
		Qty:      qty,
		User:     actor.Name,
		TicketID: &ticket.ID,
	})
	evts = append(evts, events.Event{Type: events.EventPartReserved, Actor: actor, Payload: stockPayload(m, part)})
	if low := lowStockEvent(actor, part); low != nil {
		evts = append(evts, *low)
	}

	partID = part.ID
	partName := part.Name
	ticket.NeedsPart = true
	ticket.Status = domain.TicketStatusWaitingPart
	ticket.PartID = &partID
	ticket.PartName = &partName
	ticket.PartQty = qty
	ticket.AppendAudit(now, actor.Name, fmt.Sprintf("Reserved part: %s x%d", partName, qty))
	ticket.PriorityScore = priority.Score(ticket, now)

	out := cloneTicket(ticket)
	snap, seq := s.cloneForSnapshot()
	s.mu.Unlock()

	s.afterMutation(ctx, seq, snap, evts)
	return &out, nil
}

// ReleaseReservation gives a ticket's held quantity back to availability.
// PartID and PartName stay on the ticket for traceability.
func (s *Store) ReleaseReservation(ctx context.Context, actor domain.Actor, ticketID string, note *string) (*domain.Ticket, error) {
	if !actor.CanMaintain() {
		return nil, util.NewPermissionDenied("releasing reservations requires a maintenance role")
	}

	s.mu.Lock()
	ticket := s.state.findTicket(ticketID)
	if ticket == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("ticket", ticketID)
	}
	if !ticket.HasReservation() {
		s.mu.Unlock()
		return nil, util.NewInvalidState("ticket holds no reservation")
	}
	part := s.state.findPart(*ticket.PartID)
	if part == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("part", *ticket.PartID)
	}

	now := s.now()
	part.StockReserved = clampNonNegative(part.StockReserved - ticket.PartQty)
	m := s.appendMovement(domain.PartMovement{
		PartID:   part.ID,
		Type:     domain.MovementRelease,
		Qty:      ticket.PartQty,
		User:     actor.Name,
		Note:     note,
		TicketID: &ticket.ID,
	})

	ticket.NeedsPart = false
	ticket.AppendAudit(now, actor.Name, fmt.Sprintf("Released reservation: %s x%d", part.Name, ticket.PartQty))
	ticket.PriorityScore = priority.Score(ticket, now)

	out := cloneTicket(ticket)
	snap, seq := s.cloneForSnapshot()
	s.mu.Unlock()

	s.afterMutation(ctx, seq, snap, []events.Event{
		{Type: events.EventPartReleased, Actor: actor, Payload: stockPayload(m, part)},
	})
	return &out, nil
}

// IssuePart consumes the ticket's linked part. Reserved and on-hand both
// drop by the linked quantity, each clamped at zero on its own; an already
// inconsistent pair is not forced back together here.
func (s *Store) IssuePart(ctx context.Context, actor domain.Actor, ticketID string, note *string) (*domain.Ticket, error) {
	if !actor.CanMaintain() {
		return nil, util.NewPermissionDenied("issuing parts requires a maintenance role")
	}

	s.mu.Lock()
	ticket := s.state.findTicket(ticketID)
	if ticket == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("ticket", ticketID)
	}
	if ticket.PartID == nil || ticket.PartQty <= 0 {
		s.mu.Unlock()
		return nil, util.NewInvalidState("ticket has no part linkage")
	}
	part := s.state.findPart(*ticket.PartID)
	if part == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("part", *ticket.PartID)
	}

	now := s.now()
	part.StockReserved = clampNonNegative(part.StockReserved - ticket.PartQty)
	part.StockOnHand = clampNonNegative(part.StockOnHand - ticket.PartQty)
	m := s.appendMovement(domain.PartMovement{
		PartID:   part.ID,
		Type:     domain.MovementIssue,
		Qty:      ticket.PartQty,
		User:     actor.Name,
		Note:     note,
		TicketID: &ticket.ID,
	})

	ticket.NeedsPart = false
	ticket.AppendAudit(now, actor.Name, fmt.Sprintf("Issued part: %s x%d", part.Name, ticket.PartQty))
	ticket.PriorityScore = priority.Score(ticket, now)

	evts := []events.Event{{Type: events.EventPartIssued, Actor: actor, Payload: stockPayload(m, part)}}
	if low := lowStockEvent(actor, part); low != nil {
		evts = append(evts, *low)
	}

	out := cloneTicket(ticket)
	snap, seq := s.cloneForSnapshot()
	s.mu.Unlock()

	s.afterMutation(ctx, seq, snap, evts)
	return &out, nil
}

// AdjustStock applies a manual on-hand correction. The ledger entry carries
// the absolute quantity; the signed delta lives in the note, an asymmetry
// ledger consumers must respect.
func (s *Store) AdjustStock(ctx context.Context, actor domain.Actor, partID string, delta int, note *string) (*domain.InventoryPart, error) {
	if !actor.CanManage() {
		return nil, util.NewPermissionDenied("stock adjustments require a management role")
	}
	if delta == 0 {
		return nil, util.NewInvalidState("zero delta adjustment is a no-op")
	}

	s.mu.Lock()
	part := s.state.findPart(partID)
	if part == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("part", partID)
	}

	part.StockOnHand = clampNonNegative(part.StockOnHand + delta)
	qty := delta
	if qty < 0 {
		qty = -qty
	}
	text := fmt.Sprintf("manual adjustment (%+d)", delta)
	if note != nil && *note != "" {
		text = fmt.Sprintf("%s (%+d)", *note, delta)
	}
	m := s.appendMovement(domain.PartMovement{
		PartID: part.ID,
		Type:   domain.MovementAdjust,
		Qty:    qty,
		User:   actor.Name,
		Note:   &text,
	})

	out := clonePart(part)
	snap, seq := s.cloneForSnapshot()
	s.mu.Unlock()

	evts := []events.Event{{Type: events.EventStockAdjusted, Actor: actor, Payload: stockPayload(m, &out)}}
	if low := lowStockEvent(actor, &out); low != nil {
		evts = append(evts, *low)
	}
	s.afterMutation(ctx, seq, snap, evts)
	return &out, nil
}
