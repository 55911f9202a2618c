package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nimbus-weather/nimbus/internal/provider"
	"github.com/nimbus-weather/nimbus/internal/search"
	"github.com/nimbus-weather/nimbus/internal/slider"
	"github.com/nimbus-weather/nimbus/internal/sms"
	"github.com/nimbus-weather/nimbus/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, fetcher provider.Fetcher, orch *search.Orchestrator, sl *slider.Slider, smsHandler *sms.Handler) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		conditions, err := fetcher.FetchCurrent(c.Context(), city)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(conditions)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		raw, err := fetcher.FetchForecast(c.Context(), city)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(fiber.Map{
			"city": city,
			"days": weather.SampleDaily(raw),
		})
	})

	v1.Post("/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		orch.Submit(req.Query)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"accepted": true,
			"query":    req.Query,
		})
	})

	v1.Get("/search/state", func(c *fiber.Ctx) error {
		return c.JSON(orch.State())
	})

	v1.Get("/slider", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"cities": sl.Snapshot()})
	})

	v1.Post("/sms/send", smsHandler.Send)
}

// searchRequest is the body of POST /search.
type searchRequest struct {
	Query string `json:"query" validate:"required"`
}

// cityQuery holds the query parameter identifying a location.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (string, error) {
	q := cityQuery{City: c.Query("city")}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.City, nil
}

// upstreamError maps provider failures onto HTTP responses: provider error
// payloads keep their original code and message, a request whose client hung
// up gets a non-success status so logs never record a phantom 200, and
// everything else is a generic upstream failure.
func upstreamError(err error) error {
	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.Code
		if code < http.StatusBadRequest || code > 599 {
			code = fiber.StatusBadGateway
		}
		return fiber.NewError(code, apiErr.Message)
	}
	if errors.Is(err, context.Canceled) {
		return fiber.NewError(fiber.StatusRequestTimeout, "request canceled")
	}
	return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
}
