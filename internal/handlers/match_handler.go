package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"careerpilot/career-audit/internal/models"
	"careerpilot/career-audit/internal/services"
)

type MatchHandler struct {
	pipeline services.Pipeline
}

func NewMatchHandler(pipeline services.Pipeline) *MatchHandler {
	return &MatchHandler{
		pipeline: pipeline,
	}
}

// HandleMatch ranks caller-supplied job candidates against free resume
// text by embedding similarity.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.ResumeText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_text is required",
		})
	}

	results, err := h.pipeline.MatchJobs(c.Context(), req.ResumeText, req.Jobs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("matching failed: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"matches": results,
	})
}

type similarProfilesRequest struct {
	SummaryText string `json:"summary_text"`
	Limit       int    `json:"limit"`
}

// HandleSimilarProfiles looks up the nearest stored profile embeddings for
// a free-text skill summary.
func (h *MatchHandler) HandleSimilarProfiles(c *fiber.Ctx) error {
	var req similarProfilesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.SummaryText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "summary_text is required",
		})
	}

	matches, err := h.pipeline.SimilarProfiles(c.Context(), req.SummaryText, req.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("profile search failed: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"profiles": matches,
	})
}
