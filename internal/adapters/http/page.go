package http

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed static/index.html
var indexHTML []byte

// IndexHandler serves the map page. The page talks to /ws and renders
// whatever session state the server pushes.
func IndexHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(indexHTML)
	}
}
