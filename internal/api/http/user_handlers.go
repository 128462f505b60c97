package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/auth"
	"github.com/i474232898/weather-dashboard/internal/users"
)

// loginRequest is the credentials payload for /auth/login.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func registerAuthRoutes(api fiber.Router, svcs Services) {
	api.Post("/auth/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := svcs.Auth.Login(c.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				// Same message for unknown email and wrong password.
				return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "login failed")
		}
		return c.JSON(result)
	})
}

func registerUserRoutes(api fiber.Router, svcs Services) {
	u := api.Group("/users")

	// Signup stays public; everything else requires a bearer token.
	u.Post("/", func(c *fiber.Ctx) error {
		var in users.CreateInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		created, err := svcs.Users.Create(c.Context(), in)
		if err != nil {
			if errors.Is(err, users.ErrEmailExists) {
				return fiber.NewError(fiber.StatusConflict, "email already registered")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create user")
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	u.Use(svcs.Auth.Middleware())

	u.Get("/", func(c *fiber.Ctx) error {
		list, err := svcs.Users.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list users")
		}
		return c.JSON(list)
	})

	u.Get("/:id", func(c *fiber.Ctx) error {
		user, err := svcs.Users.Get(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "user not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch user")
		}
		return c.JSON(user)
	})

	u.Patch("/:id", func(c *fiber.Ctx) error {
		var in users.UpdateInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		updated, err := svcs.Users.Update(c.Context(), c.Params("id"), in)
		if err != nil {
			switch {
			case errors.Is(err, users.ErrNotFound):
				return fiber.NewError(fiber.StatusNotFound, "user not found")
			case errors.Is(err, users.ErrEmailExists):
				return fiber.NewError(fiber.StatusConflict, "email already registered")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update user")
		}
		return c.JSON(updated)
	})

	u.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svcs.Users.Delete(c.Context(), c.Params("id")); err != nil {
			if errors.Is(err, users.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "user not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete user")
		}
		return c.JSON(fiber.Map{"message": "user deleted"})
	})
}
