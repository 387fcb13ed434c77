package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/handlers/middleware"
	"upkeep/internal/logger"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authService *services.AuthService
	userRepo    repositories.UserRepository
	app         app.App
}

type loginRequest struct {
	EmployeeID string `json:"employeeId"`
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		authService: app.Services.Auth,
		userRepo:    app.Repos.User,
		app:         app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	// Badge login: technicians identify with their employee id.
	auth.Post("/login", h.login)

	protected := auth.Group("/", h.middleware.RequireAuth(h.authService))
	protected.Get("/me", h.me)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var request loginRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if request.EmployeeID == "" {
		return badRequest(c, "employeeId is required")
	}

	user, err := h.userRepo.GetByEmployeeID(c.UserContext(), h.app.Database.SQL, request.EmployeeID)
	if err != nil {
		log.Info("login failed", "employeeID", request.EmployeeID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unknown employee id",
		})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is inactive",
		})
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}
