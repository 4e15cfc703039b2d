package store

import (
	"context"
	"strings"

	"github.com/spec-kit/maintenance-core/internal/domain"
	"github.com/spec-kit/maintenance-core/internal/events"
	"github.com/spec-kit/maintenance-core/internal/priority"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

// TicketCreateInput describes ticket creation payload. Field values are
// taken as given; validating room/asset/issue vocabularies is the
// presentation layer's concern.
type TicketCreateInput struct {
	RoomNumber  string
	IsOccupied  bool
	Asset       string
	IssueType   string
	Description string
	Urgency     domain.Urgency
	Impact      domain.Impact
	AssignedTo  *string
}

// TicketPatch carries optional field updates; nil fields are untouched.
type TicketPatch struct {
	Status      *domain.TicketStatus
	Urgency     *domain.Urgency
	Impact      *domain.Impact
	IsOccupied  *bool
	Description *string
	AssignedTo  *string
	AddNote     *string
	NeedsVendor *bool
	VendorType  *string
}

// CreateTicket opens a new ticket and scores it.
func (s *Store) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	s.mu.Lock()
	now := s.now()
	ticket := domain.Ticket{
		ID:          newKey("T"),
		RoomNumber:  strings.TrimSpace(input.RoomNumber),
		IsOccupied:  input.IsOccupied,
		Asset:       strings.TrimSpace(input.Asset),
		IssueType:   strings.TrimSpace(input.IssueType),
		Description: strings.TrimSpace(input.Description),
		Urgency:     input.Urgency,
		Impact:      input.Impact,
		Status:      domain.TicketStatusOpen,
		CreatedAt:   now,
		CreatedBy:   actor.Role,
		AssignedTo:  input.AssignedTo,
		Notes:       []string{},
	}
	if ticket.Urgency == "" {
		ticket.Urgency = domain.UrgencyLow
	}
	if ticket.Impact == "" {
		ticket.Impact = domain.ImpactNone
	}
	ticket.AppendAudit(now, actor.Name, "Ticket created")
	ticket.PriorityScore = priority.Score(&ticket, now)
	s.state.Tickets = append(s.state.Tickets, ticket)

	out := cloneTicket(&ticket)
	snap, seq := s.cloneForSnapshot()
	s.mu.Unlock()

	s.afterMutation(ctx, seq, snap, []events.Event{{
		Type:  events.EventTicketCreated,
		Actor: actor,
		Payload: events.TicketCreatedPayload{
			TicketID:   out.ID,
			RoomNumber: out.RoomNumber,
			Urgency:    out.Urgency,
			Impact:     out.Impact,
			Priority:   out.PriorityScore,
			Status:     out.Status,
		},
	}})
	return &out, nil
}

// UpdateTicket applies a patch, appends one audit event describing it, and
// recomputes the priority score. Fields are set optimistically; the only
// status change the engine itself rejects is mutating a VERIFIED ticket.
func (s *Store) UpdateTicket(ctx context.Context, actor domain.Actor, id string, patch TicketPatch, actionLabel string) (*domain.Ticket, error) {
	s.mu.Lock()
	ticket := s.state.findTicket(id)
	if ticket == nil {
		s.mu.Unlock()
		return nil, util.NewNotFound("ticket", id)
	}
	if patch.Status != nil && ticket.Status.IsTerminal() {
		s.mu.Unlock()
		return nil, util.NewInvalidState("ticket is verified; status is final")
	}

	now := s.now()
	oldStatus := ticket.Status
	if patch.Status != nil {
		ticket.Status = *patch.Status
		if ticket.Status == domain.TicketStatusVerified {
			verifier := actor.Name
			ticket.VerifiedBy = &verifier
			closed := now
			ticket.ClosedAt = &closed
		}
	}
	if patch.Urgency != nil {
		ticket.Urgency = *patch.Urgency
	}
	if patch.Impact != nil {
		ticket.Impact = *patch.Impact
	}
	if patch.IsOccupied != nil {
		ticket.IsOccupied = *patch.IsOccupied
	}
	if patch.Description != nil {
		ticket.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.AssignedTo != nil {
		ticket.AssignedTo = patch.AssignedTo
	}
	if patch.AddNote != nil && strings.TrimSpace(*patch.AddNote) != "" {
		ticket.Notes = append(ticket.Notes, strings.TrimSpace(*patch.AddNote))
	}
	if patch.NeedsVendor != nil {
		ticket.NeedsVendor = *patch.NeedsVendor
	}
	if patch.VendorType != nil {
		ticket.VendorType = patch.VendorType
	}

	if actionLabel == "" {
		actionLabel = "Ticket updated"
	}
	ticket.AppendAudit(now, actor.Name, actionLabel)
	ticket.PriorityScore = priority.Score(ticket, now)

	out := cloneTicket(ticket)
	snap, seq := s.cloneForSnapshot()
	s.mu.Unlock()

	s.afterMutation(ctx, seq, snap, []events.Event{{
		Type:  events.EventTicketUpdated,
		Actor: actor,
		Payload: events.TicketUpdatedPayload{
			TicketID:  out.ID,
			Action:    actionLabel,
			OldStatus: oldStatus,
			NewStatus: out.Status,
			Priority:  out.PriorityScore,
		},
	}})
	return &out, nil
}

// AllowedTransitions describes the intended status flow. The presentation
// layer uses it to disable controls; UpdateTicket only enforces the
// terminal state.
var AllowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:        {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress:  {domain.TicketStatusWaitingPart, domain.TicketStatusVendor, domain.TicketStatusResolved},
	domain.TicketStatusWaitingPart: {domain.TicketStatusVendor, domain.TicketStatusInProgress, domain.TicketStatusResolved},
	domain.TicketStatusVendor:      {domain.TicketStatusWaitingPart, domain.TicketStatusInProgress, domain.TicketStatusResolved},
	domain.TicketStatusResolved:    {domain.TicketStatusVerified, domain.TicketStatusInProgress},
	domain.TicketStatusVerified:    {},
}
