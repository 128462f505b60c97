// Package httpapi wires the HTTP handlers into the Fiber app.
package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/auth"
	"github.com/i474232898/weather-dashboard/internal/insight"
	"github.com/i474232898/weather-dashboard/internal/users"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// Services bundles the dependencies the HTTP layer needs.
type Services struct {
	Weather *weather.Service
	Users   *users.Service
	Auth    *auth.Service
	Insight *insight.Client

	// WorkerSecret gates the ingestion endpoint.
	WorkerSecret string
}

// RegisterRoutes wires all handlers under /api.
func RegisterRoutes(app *fiber.App, svcs Services) {
	api := app.Group("/api")

	registerWeatherRoutes(api, svcs)
	registerAuthRoutes(api, svcs)
	registerUserRoutes(api, svcs)
	registerInsightRoutes(api, svcs)
}
