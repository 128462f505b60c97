package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/insight"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type insightRequest struct {
	Data []weather.Observation `json:"data"`
}

func registerInsightRoutes(api fiber.Router, svcs Services) {
	api.Post("/ai/weather-insights", func(c *fiber.Ctx) error {
		var req insightRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if len(req.Data) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "send an array of weather readings")
		}

		insights, err := svcs.Insight.Generate(c.Context(), req.Data)
		if err != nil {
			if errors.Is(err, insight.ErrNotConfigured) {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{"insights": insights})
	})
}
