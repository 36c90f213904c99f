// Package handlers implements the HTTP endpoints of the preview service.
package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"mdpreview/internal/convert"
	"mdpreview/internal/domain"
	"mdpreview/internal/infra/logging"
)

// PDFRenderer prints an HTML fragment to a PDF document.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, fragment string) ([]byte, error)
}

// PreviewService serves conversion, export and health requests.
type PreviewService struct {
	conv        *convert.Service
	log         *logging.Logger
	pdf         PDFRenderer
	pdfFilename string
}

// Options configures a PreviewService. A nil PDF disables the export
// endpoint.
type Options struct {
	PDF         PDFRenderer
	PDFFilename string
}

// NewPreviewService returns handlers backed by conv.
func NewPreviewService(conv *convert.Service, log *logging.Logger, opts Options) *PreviewService {
	if log == nil {
		log = logging.Nop()
	}
	filename := opts.PDFFilename
	if filename == "" {
		filename = "markdown-preview.pdf"
	}
	return &PreviewService{
		conv:        conv,
		log:         log,
		pdf:         opts.PDF,
		pdfFilename: filename,
	}
}

type conversionBody struct {
	Content *string `json:"content"`
	Theme   *string `json:"theme"`
}

func decodeConversionRequest(c *fiber.Ctx) (domain.ConversionRequest, error) {
	var body conversionBody
	if err := c.BodyParser(&body); err != nil {
		return domain.ConversionRequest{}, fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if body.Content == nil {
		return domain.ConversionRequest{}, fiber.NewError(fiber.StatusBadRequest, "Invalid request body: content is required")
	}
	return domain.ConversionRequest{Content: *body.Content, Theme: body.Theme}, nil
}

func renderError(err error) error {
	if errors.Is(err, domain.ErrRenderTimeout) {
		return fiber.NewError(fiber.StatusRequestTimeout, "Markdown rendering timed out")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Markdown rendering failed")
}
