package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/export"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func registerWeatherRoutes(api fiber.Router, svcs Services) {
	w := api.Group("/weather")

	w.Post("/logs", func(c *fiber.Ctx) error {
		if svcs.WorkerSecret == "" {
			return fiber.NewError(fiber.StatusInternalServerError, "worker secret not configured")
		}
		if secret := c.Get("x-worker-secret"); secret == "" || secret != svcs.WorkerSecret {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid worker secret")
		}

		var in weather.CreateInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		id, err := svcs.Weather.Create(c.Context(), in)
		if err != nil {
			if errors.Is(err, weather.ErrInvalidTimestamp) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save weather log")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"id":      id,
		})
	})

	w.Get("/logs", func(c *fiber.Ctx) error {
		r, err := weather.ParseRange(c.Query("start"), c.Query("end"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		logs, err := svcs.Weather.List(c.Context(), r)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather logs")
		}
		return c.JSON(logs)
	})

	w.Get("/logs/latest", func(c *fiber.Ctx) error {
		latest, err := svcs.Weather.Latest(c.Context())
		if err != nil {
			if errors.Is(err, weather.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data available")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch latest weather log")
		}
		return c.JSON(latest)
	})

	w.Get("/current", func(c *fiber.Ctx) error {
		current, err := svcs.Weather.Current(c.Context())
		if err != nil {
			if errors.Is(err, weather.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data available")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch current weather")
		}
		return c.JSON(current)
	})

	w.Get("/export/csv", func(c *fiber.Ctx) error {
		logs, err := queryLogs(c, svcs)
		if err != nil {
			return err
		}

		csv, err := export.CSV(logs)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to export csv")
		}

		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename=weather.csv`)
		return c.SendString(csv)
	})

	w.Get("/export/xlsx", func(c *fiber.Ctx) error {
		logs, err := queryLogs(c, svcs)
		if err != nil {
			return err
		}

		workbook, err := export.Workbook(logs)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to export xlsx")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename=weather.xlsx`)
		return c.Send(workbook)
	})

	// Keep the id route last so it does not shadow the literal routes above.
	w.Get("/:id", func(c *fiber.Ctx) error {
		obs, err := svcs.Weather.Get(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, weather.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "weather log not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather log")
		}
		return c.JSON(obs)
	})
}

// queryLogs re-runs the range query for the export handlers.
func queryLogs(c *fiber.Ctx, svcs Services) ([]weather.Observation, error) {
	r, err := weather.ParseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	logs, err := svcs.Weather.List(c.Context(), r)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather logs")
	}
	return logs, nil
}
