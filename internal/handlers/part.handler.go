package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/logger"

	partController "upkeep/internal/controllers/parts"

	"github.com/gofiber/fiber/v2"
)

type PartHandler struct {
	Handler
	controller partController.PartControllerInterface
	app        app.App
}

func NewPartHandler(app app.App, router fiber.Router) *PartHandler {
	log := logger.New("handlers").File("part_handler")
	return &PartHandler{
		controller: app.Controllers.Part,
		app:        app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PartHandler) Register() {
	parts := h.router.Group("/parts", h.middleware.RequireAuth(h.app.Services.Auth))

	parts.Get("/low-stock", h.lowStockReport)
	parts.Get("/:id", h.getPart)
	parts.Get("/", h.listParts)

	supervised := parts.Group("/", h.middleware.RequireSupervisor())
	supervised.Post("/", h.createPart)
	supervised.Post("/categories", h.createCategory)
	supervised.Post("/:id/restock", h.restock)
}

func (h *PartHandler) createPart(c *fiber.Ctx) error {
	var request partController.CreatePartRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	part, err := h.controller.CreatePart(c.UserContext(), &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"part": part,
	})
}

func (h *PartHandler) createCategory(c *fiber.Ctx) error {
	var request partController.CreateCategoryRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.controller.CreateCategory(c.UserContext(), &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"category": category,
	})
}

func (h *PartHandler) getPart(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid part id")
	}

	part, err := h.controller.GetPart(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"part": part,
	})
}

func (h *PartHandler) listParts(c *fiber.Ctx) error {
	parts, err := h.controller.ListParts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"parts": parts,
	})
}

func (h *PartHandler) restock(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid part id")
	}

	var request partController.RestockRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	part, err := h.controller.Restock(c.UserContext(), id, &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"part": part,
	})
}

func (h *PartHandler) lowStockReport(c *fiber.Ctx) error {
	parts, err := h.controller.LowStockReport(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"parts": parts,
	})
}
