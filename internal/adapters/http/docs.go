package http

import (
	"os"

	"github.com/gofiber/fiber/v2"
)

const defaultOpenAPIPath = "api/openapi.yaml"

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Hotelfinder API</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: '/docs/openapi.yaml', dom_id: '#swagger-ui', deepLinking: true });
  </script>
</body>
</html>`

// SetupDocs registers Swagger UI at /docs and the OpenAPI document read from
// specPath at /docs/openapi.yaml.
func SetupDocs(app *fiber.App, specPath string) {
	if specPath == "" {
		specPath = defaultOpenAPIPath
	}

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(swaggerUIHTML)
	})

	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		data, err := os.ReadFile(specPath)
		if err != nil {
			return errNotFound(c, "openapi.yaml not found")
		}
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(data)
	})
}
