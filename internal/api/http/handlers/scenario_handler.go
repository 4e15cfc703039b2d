package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-core/internal/api/dto"
	"github.com/spec-kit/maintenance-core/internal/auth"
	"github.com/spec-kit/maintenance-core/internal/service"
	"github.com/spec-kit/maintenance-core/internal/store"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

// ScenarioHandler exposes scripted demonstrations and the seed reset.
type ScenarioHandler struct {
	scenarios *service.ScenarioService
	store     *store.Store
}

// NewScenarioHandler constructs handler.
func NewScenarioHandler(scenarios *service.ScenarioService, st *store.Store) *ScenarioHandler {
	return &ScenarioHandler{scenarios: scenarios, store: st}
}

// Run POST /scenarios.
func (h *ScenarioHandler) Run(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	var req dto.RunScenarioRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	trace, err := h.scenarios.Run(c.UserContext(), actor, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"scenario": req.Name, "trace": trace}})
}

// Reset POST /reset.
func (h *ScenarioHandler) Reset(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("session required")
	}
	if err := h.store.ResetToSeed(c.UserContext(), actor); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reset": true}})
}
