package handlers

import (
	"github.com/gofiber/fiber/v2"
)

const landingPage = `<h1>Markdown Preview Backend</h1><p>API is running!</p>`

// HandleLanding serves the fallback index page.
func HandleLanding(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(landingPage)
}
