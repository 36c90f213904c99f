package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"mdpreview/internal/domain"
	"mdpreview/internal/infra/chrome"
)

// HandlePDFExport renders the posted Markdown like HandleConversion and
// returns it as a PDF attachment.
func (s *PreviewService) HandlePDFExport(c *fiber.Ctx) error {
	if s.pdf == nil {
		return fiber.NewError(fiber.StatusNotFound, domain.ErrPDFDisabled.Error())
	}

	req, err := decodeConversionRequest(c)
	if err != nil {
		return err
	}

	start := time.Now()
	s.log.Info("Exporting PDF", "theme", req.ThemeName(), "bytes", len(req.Content))

	html, err := s.conv.Document(c.UserContext(), req)
	if err != nil {
		var tooLarge *domain.TooLargeError
		if errors.As(err, &tooLarge) {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large: %.1fMB. Maximum allowed size is %.0fMB.", tooLarge.SizeMB(), tooLarge.LimitMB()))
		}
		return renderError(err)
	}

	pdf, err := s.pdf.RenderPDF(c.UserContext(), html)
	if err != nil {
		s.log.Error("PDF rendering failed", "error", err)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return fiber.NewError(fiber.StatusRequestTimeout, "PDF rendering timed out")
		case chrome.IsSessionInterrupted(err):
			return fiber.NewError(fiber.StatusServiceUnavailable, "PDF renderer unavailable")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "PDF rendering failed")
		}
	}

	s.log.Info(fmt.Sprintf("PDF exported successfully in %s", time.Since(start)), "bytes", len(pdf))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", s.pdfFilename))
	return c.Send(pdf)
}
