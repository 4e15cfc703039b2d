package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-core/internal/api/dto"
	"github.com/spec-kit/maintenance-core/internal/auth"
	"github.com/spec-kit/maintenance-core/internal/store"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

// InventoryHandler exposes parts, the movement ledger, and the
// reservation/consumption commands.
type InventoryHandler struct {
	store *store.Store
}

// NewInventoryHandler constructs handler.
func NewInventoryHandler(st *store.Store) *InventoryHandler {
	return &InventoryHandler{store: st}
}

// ListParts GET /parts.
func (h *InventoryHandler) ListParts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.ListParts()})
}

// GetPart GET /parts/:id.
func (h *InventoryHandler) GetPart(c *fiber.Ctx) error {
	part, err := h.store.GetPart(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": part})
}

// Available GET /parts/:id/available.
func (h *InventoryHandler) Available(c *fiber.Ctx) error {
	available, err := h.store.AvailableStock(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"part_id": c.Params("id"), "available": available}})
}

// LowStock GET /parts/low-stock.
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.LowStockParts()})
}

// ListMovements GET /movements?part_id=&ticket_id=.
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	filter := store.MovementFilter{}
	if partID := c.Query("part_id"); partID != "" {
		filter.PartID = &partID
	}
	if ticketID := c.Query("ticket_id"); ticketID != "" {
		filter.TicketID = &ticketID
	}
	return c.JSON(fiber.Map{"data": h.store.ListMovements(filter)})
}

// Reserve POST /inventory/reserve.
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	var req dto.ReservePartRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" || req.PartID == "" {
		return util.NewValidationError("ticket_id and part_id required", nil)
	}

	ticket, err := h.store.ReservePart(c.UserContext(), actor, req.TicketID, req.PartID, req.Qty)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Release POST /inventory/release.
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	var req dto.ReleaseReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" {
		return util.NewValidationError("ticket_id required", nil)
	}

	ticket, err := h.store.ReleaseReservation(c.UserContext(), actor, req.TicketID, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Issue POST /inventory/issue.
func (h *InventoryHandler) Issue(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	var req dto.IssuePartRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" {
		return util.NewValidationError("ticket_id required", nil)
	}

	ticket, err := h.store.IssuePart(c.UserContext(), actor, req.TicketID, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Adjust POST /inventory/adjust.
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	var req dto.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.PartID == "" {
		return util.NewValidationError("part_id required", nil)
	}

	// Fractional deltas truncate toward zero.
	part, err := h.store.AdjustStock(c.UserContext(), actor, req.PartID, int(req.Delta), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": part})
}
