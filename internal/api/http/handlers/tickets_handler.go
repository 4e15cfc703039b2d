package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-core/internal/api/dto"
	"github.com/spec-kit/maintenance-core/internal/auth"
	"github.com/spec-kit/maintenance-core/internal/store"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

// TicketsHandler exposes the ticket command/query surface.
type TicketsHandler struct {
	store *store.Store
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(st *store.Store) *TicketsHandler {
	return &TicketsHandler{store: st}
}

// List GET /tickets. With ?board=true the scores are refreshed against now
// and the list comes back highest priority first.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	if c.QueryBool("board") {
		return c.JSON(fiber.Map{"data": h.store.TicketBoard()})
	}
	return c.JSON(fiber.Map{"data": h.store.ListTickets()})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.store.GetTicket(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Priority GET /tickets/:id/priority.
func (h *TicketsHandler) Priority(c *fiber.Ctx) error {
	score, err := h.store.PriorityFor(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ticket_id": c.Params("id"), "priority_score": score}})
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.RoomNumber == "" || req.Asset == "" || req.IssueType == "" {
		return util.NewValidationError("room_number, asset, issue_type required", nil)
	}

	ticket, err := h.store.CreateTicket(c.UserContext(), actor, store.TicketCreateInput{
		RoomNumber:  req.RoomNumber,
		IsOccupied:  req.IsOccupied,
		Asset:       req.Asset,
		IssueType:   req.IssueType,
		Description: req.Description,
		Urgency:     req.Urgency,
		Impact:      req.Impact,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.store.UpdateTicket(c.UserContext(), actor, c.Params("id"), store.TicketPatch{
		Status:      req.Status,
		Urgency:     req.Urgency,
		Impact:      req.Impact,
		IsOccupied:  req.IsOccupied,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		AddNote:     req.AddNote,
		NeedsVendor: req.NeedsVendor,
		VendorType:  req.VendorType,
	}, req.Action)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}
