package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/logger"

	catalogController "upkeep/internal/controllers/catalog"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Handler
	controller catalogController.CatalogControllerInterface
	app        app.App
}

func NewCatalogHandler(app app.App, router fiber.Router) *CatalogHandler {
	log := logger.New("handlers").File("catalog_handler")
	return &CatalogHandler{
		controller: app.Controllers.Catalog,
		app:        app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CatalogHandler) Register() {
	types := h.router.Group("/activity-types", h.middleware.RequireAuth(h.app.Services.Auth))

	types.Get("/", h.listActiveTypes)
	types.Get("/:id", h.getActivityType)
	types.Get("/:id/questions", h.questionsFor)

	supervised := types.Group("/", h.middleware.RequireSupervisor())
	supervised.Post("/", h.createActivityType)
	supervised.Post("/:id/questions", h.createQuestion)
}

func (h *CatalogHandler) createActivityType(c *fiber.Ctx) error {
	var request catalogController.CreateActivityTypeRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	activityType, err := h.controller.CreateActivityType(c.UserContext(), &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"activityType": activityType,
	})
}

func (h *CatalogHandler) getActivityType(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid activity type id")
	}

	activityType, err := h.controller.GetActivityType(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"activityType": activityType,
	})
}

func (h *CatalogHandler) listActiveTypes(c *fiber.Ctx) error {
	types, err := h.controller.ListActiveTypes(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"activityTypes": types,
	})
}

func (h *CatalogHandler) createQuestion(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid activity type id")
	}

	var request catalogController.CreateQuestionRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}
	request.ActivityTypeID = id

	question, err := h.controller.CreateQuestion(c.UserContext(), &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"question": question,
	})
}

func (h *CatalogHandler) questionsFor(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid activity type id")
	}

	questions, err := h.controller.QuestionsFor(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"questions": questions,
	})
}
