package chrome

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mdpreview/internal/config"
)

func TestDocument_EmbedsFragmentWithPageBreakCSS(t *testing.T) {
	doc := Document(`<div class="markdown-content"><h1>Hi</h1></div>`)
	assert.Contains(t, doc, "<!DOCTYPE html>")
	assert.Contains(t, doc, `<meta charset="utf-8">`)
	assert.Contains(t, doc, "break-inside: avoid")
	assert.Contains(t, doc, `<body>
<div class="markdown-content"><h1>Hi</h1></div>
</body>`)
}

func TestNewPDFRenderer_FromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.PDF.ChromePath = "/opt/chrome"
	cfg.PDF.ChromeNoSandbox = true

	r := NewPDFRenderer(cfg)
	assert.Equal(t, "/opt/chrome", r.ChromePath)
	assert.True(t, r.NoSandbox)
	assert.Equal(t, 30*time.Second, r.Timeout)
	assert.Equal(t, 0.5, r.Margin)
	assert.Equal(t, config.PaperSize{Width: 8.27, Height: 11.69}, r.Paper)
}

func TestRenderPDF_ErrorWhenBinaryMissing(t *testing.T) {
	r := &PDFRenderer{ChromePath: "/definitely/missing/chrome", Timeout: time.Second, Paper: config.PaperSize{Width: 8.27, Height: 11.69}, Margin: 0.5}
	_, err := r.RenderPDF(context.Background(), "<p>x</p>")
	assert.Error(t, err)
}

func TestPrintDocument_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := printDocument(ctx, Document("<p>x</p>"), config.PaperSize{Width: 8.27, Height: 11.69}, 0.5)
	assert.Error(t, err)
}

func TestIsSessionInterrupted(t *testing.T) {
	assert.False(t, IsSessionInterrupted(nil))
	assert.False(t, IsSessionInterrupted(errors.New("invalid frame")))
	assert.True(t, IsSessionInterrupted(errors.New("websocket: close 1006")))
	assert.True(t, IsSessionInterrupted(errors.New("Target closed")))
	assert.True(t, IsSessionInterrupted(ErrInterrupted))
}
