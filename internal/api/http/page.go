package httpapi

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/solar-energy-estimator/internal/common"
	"github.com/i474232898/solar-energy-estimator/internal/estimate"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"num": common.FormatFloat,
	"cell": func(v *float64) string {
		if v == nil {
			return "–"
		}
		return common.FormatFloat(common.Round(*v, 2))
	},
}).ParseFS(templateFS, "templates/index.html"))

type formValues struct {
	Latitude  string
	Longitude string
	Region    string
}

type pageData struct {
	Error       string
	Form        formValues
	Result      *estimate.Estimate
	TopRegions  []estimate.Estimate
	Correlation *estimate.CorrelationMatrix
}

func renderPage(c *fiber.Ctx, status int, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
