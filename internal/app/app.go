package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"mdpreview/internal/config"
	"mdpreview/internal/convert"
	"mdpreview/internal/handlers"
	"mdpreview/internal/infra/chrome"
	"mdpreview/internal/infra/logging"
	"mdpreview/internal/markdown"
)

// Deps are the collaborators injected into the app. Nil Renderer and PDF
// are built from Config; nil Storage keeps rate limiter state in memory.
type Deps struct {
	Config   config.Config
	Logger   *logging.Logger
	Storage  fiber.Storage
	Renderer convert.Renderer
	PDF      handlers.PDFRenderer
}

// SetupApp creates and configures a new Fiber app instance
func SetupApp(deps Deps) *fiber.App {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = logging.Default()
	}

	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			requestLogger(c, log).Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		},
	})

	RegisterMiddleware(app, cfg, log, deps.Storage)
	RegisterRoutes(app, deps, log)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

// RegisterRoutes mounts all route handlers to the app
func RegisterRoutes(app *fiber.App, deps Deps, log *logging.Logger) {
	cfg := deps.Config

	renderer := deps.Renderer
	if renderer == nil {
		renderer = markdown.NewGoldmarkRenderer(markdown.Options{
			Highlight:      cfg.Markdown.Highlight,
			HighlightStyle: cfg.Markdown.HighlightStyle,
			UnsafeHTML:     cfg.Markdown.UnsafeHTML,
		})
	}
	pdf := deps.PDF
	if pdf == nil && cfg.PDF.Enabled {
		pdf = chrome.NewPDFRenderer(cfg)
	}

	conv := convert.NewService(renderer, log, convert.Options{
		MaxContentBytes: cfg.Limits.MaxContentBytes,
		RenderTimeout:   cfg.Limits.RenderTimeout,
	})
	svc := handlers.NewPreviewService(conv, log, handlers.Options{
		PDF:         pdf,
		PDFFilename: cfg.PDF.Filename,
	})

	if cfg.Server.StaticDir != "" {
		app.Static("/", cfg.Server.StaticDir)
	} else {
		app.Get("/", handlers.HandleLanding)
	}

	app.Get("/health", svc.HandleHealth)

	api := app.Group("/api")
	api.Post("/convert", svc.HandleConversion)
	api.Post("/export/pdf", svc.HandlePDFExport)

	if cfg.Server.EnableMonitor {
		app.Get("/ops/monitor", monitor.New())
	}
}
