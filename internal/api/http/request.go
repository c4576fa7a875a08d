package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/solar-energy-estimator/internal/estimate"
)

var validate = validator.New()

// invalidCoordinatesMessage is shown for any missing, non-numeric or
// out-of-range coordinate.
const invalidCoordinatesMessage = "Please enter valid latitude and longitude or allow location access."

var errInvalidCoordinates = errors.New("invalid coordinates")

// estimateRequest holds a form or JSON query. Pointers distinguish a missing
// coordinate from 0 (the equator or the prime meridian).
type estimateRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Region    string   `json:"region" validate:"max=200"`
}

func (r estimateRequest) toQuery() estimate.QueryRequest {
	return estimate.QueryRequest{
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
		Region:    strings.TrimSpace(r.Region),
	}
}

// parseEstimateRequest reads a JSON body or form fields and validates them.
// Any failure is reported as errInvalidCoordinates.
func parseEstimateRequest(c *fiber.Ctx) (estimateRequest, error) {
	var req estimateRequest

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&req); err != nil {
			return req, errInvalidCoordinates
		}
	} else {
		lat, ok := parseCoordinate(c.FormValue("latitude"))
		if !ok {
			return req, errInvalidCoordinates
		}
		lon, ok := parseCoordinate(c.FormValue("longitude"))
		if !ok {
			return req, errInvalidCoordinates
		}
		req.Latitude = &lat
		req.Longitude = &lon
		req.Region = c.FormValue("region")
	}

	if err := validate.Struct(req); err != nil {
		return req, errInvalidCoordinates
	}
	return req, nil
}

func parseCoordinate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
