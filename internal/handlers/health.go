package handlers

import (
	"github.com/gofiber/fiber/v2"

	"mdpreview/internal/domain"
)

// HandleHealth reports a static healthy status.
func (s *PreviewService) HandleHealth(c *fiber.Ctx) error {
	s.log.Info("Health check requested")
	return c.JSON(domain.Healthy())
}
