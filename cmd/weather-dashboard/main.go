package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/auth"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/insight"
	"github.com/i474232898/weather-dashboard/internal/logging"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/users"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func main() {
	log := logging.New("weather-dashboard")

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	mongoStore, err := store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		log.Error("failed to connect to mongo", "err", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoStore.Close(shutdownCtx); err != nil {
			log.Error("error closing mongo", "err", err)
		}
	}()

	weatherSvc := weather.NewService(mongoStore, log)
	userSvc := users.NewService(mongoStore, log)
	authSvc := auth.NewService(userSvc, cfg.JWTSecret, cfg.JWTTTL, log)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	insightClient := insight.NewClient(insight.Config{
		APIKey: cfg.AIAPIKey,
		Model:  cfg.AIModel,
		APIURL: cfg.AIAPIURL,
	}, httpClient, log)

	// One-time default admin bootstrap; safe to repeat across restarts.
	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 10*time.Second)
	err = userSvc.EnsureDefaultAdmin(bootCtx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	cancelBoot()
	if err != nil {
		log.Error("failed to bootstrap default admin", "err", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Services{
		Weather:      weatherSvc,
		Users:        userSvc,
		Auth:         authSvc,
		Insight:      insightClient,
		WorkerSecret: cfg.WorkerSecret,
	})

	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "err", err)
		}
	}()

	// Wait for termination signal
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "err", err)
	}
}
