// Package chrome prints HTML documents to PDF with headless Chrome.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"mdpreview/internal/config"
)

// ErrInterrupted indicates the Chrome target went away mid-render.
var ErrInterrupted = errors.New("chrome session interrupted")

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Markdown Preview</title>
<style>
.markdown-content h1, .markdown-content h2, .markdown-content h3,
.markdown-content h4, .markdown-content h5, .markdown-content h6,
.markdown-content p, .markdown-content pre, .markdown-content table,
.markdown-content ul, .markdown-content ol, .markdown-content blockquote {
  page-break-inside: avoid;
  break-inside: avoid;
  page-break-after: auto;
}
.markdown-content tr, .markdown-content td, .markdown-content th {
  page-break-inside: avoid;
  break-inside: avoid;
}
</style>
</head>
<body>
%s
</body>
</html>`

// Document embeds a preview fragment in a printable HTML page.
func Document(fragment string) string {
	return fmt.Sprintf(documentTemplate, fragment)
}

// PDFRenderer starts a fresh Chrome per render.
type PDFRenderer struct {
	ChromePath string
	NoSandbox  bool
	Timeout    time.Duration
	Paper      config.PaperSize
	Margin     float64
}

// NewPDFRenderer builds a renderer from the pdf config section.
func NewPDFRenderer(cfg config.Config) *PDFRenderer {
	return &PDFRenderer{
		ChromePath: cfg.PDF.ChromePath,
		NoSandbox:  cfg.PDF.ChromeNoSandbox,
		Timeout:    time.Duration(cfg.PDF.TimeoutSecs) * time.Second,
		Paper:      cfg.PDF.Paper,
		Margin:     cfg.PDF.Margin,
	}
}

// RenderPDF prints fragment, wrapped by Document, to PDF.
func (r *PDFRenderer) RenderPDF(ctx context.Context, fragment string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "chromedata-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp profile dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	allocatorOptions := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(tmpDir),
		// Software rendering for minimal container environments.
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-gpu-compositing", true),
		chromedp.Flag("disable-features", "Vulkan,UseSkiaRenderer"),
		chromedp.Flag("use-gl", "swiftshader"),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ChromePath != "" {
		allocatorOptions = append(allocatorOptions, chromedp.ExecPath(r.ChromePath))
	}
	if r.NoSandbox {
		allocatorOptions = append(allocatorOptions, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions...)
	defer cancelAlloc()
	chromeCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if r.Timeout > 0 {
		chromeCtx, cancel = context.WithTimeout(chromeCtx, r.Timeout)
		defer cancel()
	}

	pdfBuf, err := printDocument(chromeCtx, Document(fragment), r.Paper, r.Margin)
	if err != nil {
		if IsSessionInterrupted(err) {
			return nil, fmt.Errorf("%w: %v", ErrInterrupted, err)
		}
		return nil, err
	}
	return pdfBuf, nil
}

// printDocument loads html into a blank tab and prints it.
func printDocument(ctx context.Context, html string, paper config.PaperSize, margin float64) ([]byte, error) {
	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frame, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frame.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paper.Width).
				WithPaperHeight(paper.Height).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// IsSessionInterrupted reports whether err means the browser or tab died.
func IsSessionInterrupted(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInterrupted) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"target closed", "session closed", "websocket: close", "connection reset", "broken pipe"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
