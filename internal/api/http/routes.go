package httpapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/solar-energy-estimator/internal/estimate"
)

// ErrorHandler renders errors as JSON for API clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Centralized error response
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTML form and JSON API handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *estimate.Service, logger *zap.SugaredLogger) {
	h := &handlers{service: service, logger: logger}

	app.Get("/", h.indexPage)
	app.Post("/", h.submitForm)

	v1 := app.Group("/api/v1")
	v1.Post("/estimate", h.estimate)
	v1.Get("/top-regions", h.topRegions)
	v1.Get("/queries/recent", h.recentQueries)
}

type handlers struct {
	service *estimate.Service
	logger  *zap.SugaredLogger
}

func (h *handlers) indexPage(c *fiber.Ctx) error {
	top, err := h.service.TopRegions()
	if err != nil {
		h.logger.Errorw("load top regions snapshot", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load top regions")
	}
	return renderPage(c, fiber.StatusOK, pageData{TopRegions: top})
}

func (h *handlers) submitForm(c *fiber.Ctx) error {
	form := formValues{
		Latitude:  strings.TrimSpace(c.FormValue("latitude")),
		Longitude: strings.TrimSpace(c.FormValue("longitude")),
		Region:    strings.TrimSpace(c.FormValue("region")),
	}

	req, err := parseEstimateRequest(c)
	if err != nil {
		return renderPage(c, fiber.StatusBadRequest, pageData{
			Error: invalidCoordinatesMessage,
			Form:  form,
		})
	}

	result, err := h.service.Query(c.UserContext(), req.toQuery())
	if err != nil {
		h.logger.Errorw("query failed", "error", err, "request_id", c.Locals("requestid"))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute estimate")
	}

	return renderPage(c, fiber.StatusOK, pageData{
		Form:        form,
		Result:      &result.Estimate,
		TopRegions:  result.TopRegions,
		Correlation: result.Correlation,
	})
}

func (h *handlers) estimate(c *fiber.Ctx) error {
	req, err := parseEstimateRequest(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, invalidCoordinatesMessage)
	}

	result, err := h.service.Query(c.UserContext(), req.toQuery())
	if err != nil {
		h.logger.Errorw("query failed", "error", err, "request_id", c.Locals("requestid"))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute estimate")
	}
	return c.JSON(result)
}

func (h *handlers) topRegions(c *fiber.Ctx) error {
	top, err := h.service.TopRegions()
	if err != nil {
		h.logger.Errorw("load top regions snapshot", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load top regions")
	}
	if top == nil {
		top = []estimate.Estimate{}
	}
	return c.JSON(fiber.Map{
		"topRegions": top,
	})
}

func (h *handlers) recentQueries(c *fiber.Ctx) error {
	recent := h.service.RecentQueries()
	if recent == nil {
		recent = []estimate.Estimate{}
	}
	return c.JSON(fiber.Map{
		"queries": recent,
	})
}
