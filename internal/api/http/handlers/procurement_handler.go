package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-core/internal/api/dto"
	"github.com/spec-kit/maintenance-core/internal/auth"
	"github.com/spec-kit/maintenance-core/internal/store"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

// ProcurementHandler exposes the purchase order workflow.
type ProcurementHandler struct {
	store *store.Store
}

// NewProcurementHandler constructs handler.
func NewProcurementHandler(st *store.Store) *ProcurementHandler {
	return &ProcurementHandler{store: st}
}

// List GET /purchase-orders.
func (h *ProcurementHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.ListPurchaseOrders()})
}

// Create POST /purchase-orders.
func (h *ProcurementHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	var req dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.PartID == "" {
		return util.NewValidationError("part_id required", nil)
	}

	po, err := h.store.CreatePurchaseOrder(c.UserContext(), actor, store.PurchaseOrderInput{
		PartID:   req.PartID,
		Qty:      req.Qty,
		Vendor:   req.Vendor,
		ETADays:  req.ETADays,
		TicketID: req.TicketID,
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": po})
}

// Receive POST /purchase-orders/:id/receive.
func (h *ProcurementHandler) Receive(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	po, err := h.store.ReceivePurchaseOrder(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": po})
}

// Cancel POST /purchase-orders/:id/cancel.
func (h *ProcurementHandler) Cancel(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	po, err := h.store.CancelPurchaseOrder(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": po})
}
