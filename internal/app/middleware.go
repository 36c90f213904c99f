package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/xid"

	"mdpreview/internal/config"
	"mdpreview/internal/infra/logging"
)

// RegisterMiddleware attaches CORS, security headers, request IDs, liveness probes,
// the per-client limiter and request logging, in that order.
func RegisterMiddleware(app *fiber.App, cfg config.Config, log *logging.Logger, store fiber.Storage) {
	if log == nil {
		log = logging.Nop()
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST",
	}))

	app.Use(helmet.New(helmet.Config{
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "origin-when-cross-origin",
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	app.Use(healthcheck.New())

	if cfg.RateLimiter.UserLimit > 0 {
		app.Use(userRateLimitMiddleware(cfg, store, log))
	}

	app.Use(requestLogMiddleware(log))
}

type ctxKey int

const requestLoggerKey ctxKey = iota

// requestLogger returns the request-scoped logger, or fallback outside the
// middleware chain.
func requestLogger(c *fiber.Ctx, fallback *logging.Logger) *logging.Logger {
	if l, ok := c.Locals(requestLoggerKey).(*logging.Logger); ok {
		return l
	}
	return fallback
}

// requestLogMiddleware writes one INFO record per incoming request.
func requestLogMiddleware(log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = c.GetRespHeader(fiber.HeaderXRequestID)
		}
		reqLog := log.With("request_id", requestID)
		reqLog.Info("Incoming request", "method", c.Method(), "path", c.Path())
		c.Locals(requestLoggerKey, reqLog)
		return c.Next()
	}
}
