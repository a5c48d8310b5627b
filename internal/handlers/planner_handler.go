package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"careerpilot/career-audit/internal/models"
	"careerpilot/career-audit/internal/services"
)

type PlannerHandler struct {
	planner services.PlannerService
}

func NewPlannerHandler(planner services.PlannerService) *PlannerHandler {
	return &PlannerHandler{
		planner: planner,
	}
}

// HandleSprint generates the weekly sprint plan. Persistence is best-effort
// and tied to the identity in the request body.
func (h *PlannerHandler) HandleSprint(c *fiber.Ctx) error {
	var req models.SprintRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	plan, err := h.planner.GenerateSprint(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("sprint generation failed: %v", err),
		})
	}

	return c.JSON(plan)
}

// HandleProjects generates portfolio project ideas.
func (h *PlannerHandler) HandleProjects(c *fiber.Ctx) error {
	var req models.ProjectsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ideas, err := h.planner.GenerateProjectIdeas(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("project idea generation failed: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"ideas": ideas,
	})
}
