package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleConversion converts the posted Markdown. Content over the soft limit
// is reported in the body with status 200.
func (s *PreviewService) HandleConversion(c *fiber.Ctx) error {
	req, err := decodeConversionRequest(c)
	if err != nil {
		return err
	}

	resp, err := s.conv.Convert(c.UserContext(), req)
	if err != nil {
		return renderError(err)
	}
	return c.JSON(resp)
}
