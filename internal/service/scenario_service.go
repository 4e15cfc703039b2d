package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/maintenance-core/internal/domain"
	"github.com/spec-kit/maintenance-core/internal/store"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

// ScenarioService synthesizes demonstration workflows as a thin façade
// over the store commands. It bears no invariants of its own.
type ScenarioService struct {
	store *store.Store
}

// NewScenarioService constructs the service.
func NewScenarioService(st *store.Store) *ScenarioService {
	return &ScenarioService{store: st}
}

// Scenario names accepted by Run.
const (
	ScenarioBlockingIssue = "blocking-issue"
	ScenarioPartWorkflow  = "part-workflow"
	ScenarioReplenishment = "replenishment"
)

// Run executes a named scenario and returns a human-readable trace of the
// commands it issued.
func (s *ScenarioService) Run(ctx context.Context, actor domain.Actor, name string) ([]string, error) {
	switch name {
	case ScenarioBlockingIssue:
		return s.runBlockingIssue(ctx, actor)
	case ScenarioPartWorkflow:
		return s.runPartWorkflow(ctx, actor)
	case ScenarioReplenishment:
		return s.runReplenishment(ctx, actor)
	default:
		return nil, util.NewValidationError("unknown scenario", map[string]any{"name": name})
	}
}

// runBlockingIssue escalates the highest-priority workable ticket to a
// guest-blocking emergency, fabricating a fresh ticket when none qualifies.
func (s *ScenarioService) runBlockingIssue(ctx context.Context, actor domain.Actor) ([]string, error) {
	var trace []string
	ticket := s.pickWorkable()
	if ticket == nil {
		created, err := s.store.CreateTicket(ctx, actor, store.TicketCreateInput{
			RoomNumber:  "501",
			IsOccupied:  true,
			Asset:       "Air conditioning",
			IssueType:   "Not cooling",
			Description: "Demo: guest cannot stay in the room, AC is dead.",
			Urgency:     domain.UrgencyHigh,
			Impact:      domain.ImpactBlocking,
		})
		if err != nil {
			return nil, err
		}
		ticket = created
		trace = append(trace, fmt.Sprintf("created ticket %s in room %s", ticket.ID, ticket.RoomNumber))
	} else {
		trace = append(trace, fmt.Sprintf("picked ticket %s (score %d)", ticket.ID, ticket.PriorityScore))
	}

	urgency := domain.UrgencyHigh
	impact := domain.ImpactBlocking
	occupied := true
	updated, err := s.store.UpdateTicket(ctx, actor, ticket.ID, store.TicketPatch{
		Urgency:    &urgency,
		Impact:     &impact,
		IsOccupied: &occupied,
	}, "Escalated to guest-blocking emergency")
	if err != nil {
		return nil, err
	}
	trace = append(trace, fmt.Sprintf("escalated %s, new score %d", updated.ID, updated.PriorityScore))
	return trace, nil
}

// runPartWorkflow walks a ticket through reserve and issue using the first
// part with available stock.
func (s *ScenarioService) runPartWorkflow(ctx context.Context, actor domain.Actor) ([]string, error) {
	var trace []string
	ticket := s.pickWorkable()
	if ticket == nil {
		created, err := s.store.CreateTicket(ctx, actor, store.TicketCreateInput{
			RoomNumber:  "318",
			IsOccupied:  false,
			Asset:       "Shower",
			IssueType:   "Dripping",
			Description: "Demo: shower cartridge worn out.",
			Urgency:     domain.UrgencyMedium,
			Impact:      domain.ImpactAnnoying,
		})
		if err != nil {
			return nil, err
		}
		ticket = created
		trace = append(trace, fmt.Sprintf("created ticket %s", ticket.ID))
	}

	var part *domain.InventoryPart
	for _, p := range s.store.ListParts() {
		if p.Available() > 0 {
			chosen := p
			part = &chosen
			break
		}
	}
	if part == nil {
		return trace, util.NewInvalidState("no part with available stock for demo")
	}

	if _, err := s.store.ReservePart(ctx, actor, ticket.ID, part.ID, 1); err != nil {
		return trace, err
	}
	trace = append(trace, fmt.Sprintf("reserved %s for %s", part.ID, ticket.ID))

	if _, err := s.store.IssuePart(ctx, actor, ticket.ID, nil); err != nil {
		return trace, err
	}
	trace = append(trace, fmt.Sprintf("issued %s to %s", part.ID, ticket.ID))
	return trace, nil
}

// runReplenishment orders and receives stock for the lowest part.
func (s *ScenarioService) runReplenishment(ctx context.Context, actor domain.Actor) ([]string, error) {
	reports := s.store.LowStockParts()
	var input store.PurchaseOrderInput
	if len(reports) > 0 {
		input = store.PurchaseOrderInput{PartID: reports[0].Part.ID, Qty: reports[0].SuggestedQty}
	} else {
		parts := s.store.ListParts()
		if len(parts) == 0 {
			return nil, util.NewInvalidState("no parts in catalog")
		}
		input = store.PurchaseOrderInput{PartID: parts[0].ID}
	}

	po, err := s.store.CreatePurchaseOrder(ctx, actor, input)
	if err != nil {
		return nil, err
	}
	trace := []string{fmt.Sprintf("created purchase order %s from %s", po.ID, po.Vendor)}

	if _, err := s.store.ReceivePurchaseOrder(ctx, actor, po.ID); err != nil {
		return trace, err
	}
	trace = append(trace, fmt.Sprintf("received purchase order %s", po.ID))
	return trace, nil
}

// pickWorkable returns the highest-priority open or in-progress ticket.
func (s *ScenarioService) pickWorkable() *domain.Ticket {
	for _, t := range s.store.TicketBoard() {
		if t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusInProgress {
			chosen := t
			return &chosen
		}
	}
	return nil
}
