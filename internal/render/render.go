package render

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var globalVars = fiber.Map{}

func InitValues(data fiber.Map) {
	globalVars = data
}

func NewHtmlEngine(templateDir string) *html.Engine {
	if templateDir != "" {
		return html.NewFileSystem(http.Dir(templateDir), ".html")
	}
	renderFS, _ := fs.Sub(templateFS, "templates")
	return html.NewFileSystem(http.FS(renderFS), ".html")
}

func RenderSignup(ctx *fiber.Ctx, data SignupPageData) error {
	return ctx.Render("signup", fiber.Map{
		"siteName":   globalVars["siteName"],
		"csrfToken":  data.CSRFToken,
		"fields":     data.Fields,
		"submitting": data.Submitting,
		"notice":     data.Notice,
	})
}

func renderError(ctx *fiber.Ctx, title string, message string) error {
	return ctx.Render("error", fiber.Map{
		"siteName": globalVars["siteName"],
		"title":    title,
		"message":  message,
	})
}

func RenderBadRequestError(ctx *fiber.Ctx) error {
	return renderError(ctx, "Bad request", "The request could not be understood.")
}

func RenderForbiddenError(ctx *fiber.Ctx) error {
	return renderError(ctx, "Forbidden", "Your session expired, reload the page and try again.")
}

func RenderNotFoundError(ctx *fiber.Ctx) error {
	return renderError(ctx, "Not found", "The page you are looking for does not exist.")
}

func RenderInternalServerError(ctx *fiber.Ctx) error {
	return renderError(ctx, "Something went wrong", "Please try again later.")
}
