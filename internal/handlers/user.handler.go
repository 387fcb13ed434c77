package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/logger"

	userController "upkeep/internal/controllers/users"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller userController.UserControllerInterface
	app        app.App
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		controller: app.Controllers.User,
		app:        app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth(h.app.Services.Auth))

	users.Get("/:id", h.getUser)

	// Only supervisors manage the roster.
	supervised := users.Group("/", h.middleware.RequireSupervisor())
	supervised.Post("/", h.registerUser)
}

func (h *UserHandler) registerUser(c *fiber.Ctx) error {
	var request userController.RegisterUserRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.controller.RegisterUser(c.UserContext(), &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user,
	})
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	user, err := h.controller.GetUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}
