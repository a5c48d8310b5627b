package handlers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"careerpilot/career-audit/internal/models"
	"careerpilot/career-audit/internal/services"
)

type AuditHandler struct {
	pipeline    services.Pipeline
	maxFileSize int64
}

func NewAuditHandler(pipeline services.Pipeline, maxFileSize int64) *AuditHandler {
	return &AuditHandler{
		pipeline:    pipeline,
		maxFileSize: maxFileSize,
	}
}

// HandleAudit runs the full pipeline on an uploaded resume. The multipart
// form carries the file plus optional github_url, target_role and the
// caller's identity fields.
func (h *AuditHandler) HandleAudit(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume file uploaded. Please upload 'file' as a PDF.",
		})
	}

	if fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to open uploaded file: %v", err),
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to read uploaded file: %v", err),
		})
	}

	doc := services.Document{
		Data:      data,
		MediaType: documentMediaType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename),
		Filename:  fileHeader.Filename,
	}

	identity := models.Identity{
		ExternalID: c.FormValue("external_id"),
		Email:      c.FormValue("email"),
		Name:       c.FormValue("name"),
	}

	response, err := h.pipeline.RunAudit(
		c.Context(),
		doc,
		c.FormValue("github_url"),
		c.FormValue("target_role"),
		identity,
	)
	if err != nil {
		return auditError(c, err)
	}

	return c.JSON(response)
}

// documentMediaType prefers the declared content type and falls back to the
// filename extension when the client sent none.
func documentMediaType(declared, filename string) string {
	if declared != "" {
		// Strip parameters like "; charset=utf-8".
		if i := strings.Index(declared, ";"); i >= 0 {
			declared = declared[:i]
		}
		return strings.TrimSpace(declared)
	}
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return services.MediaTypePDF
	}
	return ""
}

// auditError maps pipeline failures onto status codes: media type problems
// are the client's fault, an empty document is unprocessable, anything else
// is a server error.
func auditError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnsupportedMediaType):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": "Only PDF resumes are supported",
		})
	case errors.Is(err, services.ErrNoTextContent):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Could not extract any text from the PDF",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("audit failed: %v", err),
		})
	}
}
