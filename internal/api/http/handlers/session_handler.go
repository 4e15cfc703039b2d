package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-core/internal/api/dto"
	"github.com/spec-kit/maintenance-core/internal/auth"
	"github.com/spec-kit/maintenance-core/internal/domain"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

// SessionHandler issues role session tokens. Roles are selectable labels;
// there is no credential check.
type SessionHandler struct {
	tokens *auth.TokenManager
}

// NewSessionHandler constructs handler.
func NewSessionHandler(tokens *auth.TokenManager) *SessionHandler {
	return &SessionHandler{tokens: tokens}
}

// Create POST /session.
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return util.NewValidationError("name required", nil)
	}
	if !auth.ValidRole(req.Role) {
		return util.NewValidationError("unknown role", map[string]any{"role": req.Role})
	}

	actor := domain.Actor{Name: req.Name, Role: req.Role}
	token, expiresAt, err := h.tokens.GenerateToken(actor)
	if err != nil {
		return util.NewInternalError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Actor:     actor,
	}})
}

// ListRoles GET /session/roles.
func (h *SessionHandler) ListRoles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": auth.SelectableRoles})
}
