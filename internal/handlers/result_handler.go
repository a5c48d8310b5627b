package handlers

import (
	"github.com/gofiber/fiber/v2"

	"careerpilot/career-audit/internal/repositories"
)

type ResultHandler struct {
	userRepo  repositories.UserRepository
	auditRepo repositories.AuditRepository
}

func NewResultHandler(userRepo repositories.UserRepository, auditRepo repositories.AuditRepository) *ResultHandler {
	return &ResultHandler{
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

// HandleLatestAudit returns the most recent stored audit for a user,
// identified by their external id.
func (h *ResultHandler) HandleLatestAudit(c *fiber.Ctx) error {
	externalID := c.Params("externalID")
	if externalID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "external id is required",
		})
	}

	user, err := h.userRepo.FindByExternalID(c.Context(), externalID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	audit, err := h.auditRepo.LatestByUser(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No audits found for user",
		})
	}

	return c.JSON(audit)
}
