package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/logger"
	"upkeep/internal/models"

	locationController "upkeep/internal/controllers/locations"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LocationHandler struct {
	Handler
	controller locationController.LocationControllerInterface
	app        app.App
}

type reparentRequest struct {
	ParentID *uuid.UUID `json:"parentId"`
}

func NewLocationHandler(app app.App, router fiber.Router) *LocationHandler {
	log := logger.New("handlers").File("location_handler")
	return &LocationHandler{
		controller: app.Controllers.Location,
		app:        app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *LocationHandler) Register() {
	locations := h.router.Group("/locations", h.middleware.RequireAuth(h.app.Services.Auth))

	locations.Get("/tree", h.getTree)
	locations.Get("/:id", h.getLocation)
	locations.Get("/:id/children", h.getChildren)
	locations.Get("/:id/path", h.getPath)
	locations.Get("/", h.getByType)

	// Structural changes are supervisor-only.
	supervised := locations.Group("/", h.middleware.RequireSupervisor())
	supervised.Post("/", h.createLocation)
	supervised.Put("/:id", h.updateLocation)
	supervised.Put("/:id/parent", h.reparentLocation)
	supervised.Delete("/:id", h.deleteLocation)
}

func (h *LocationHandler) createLocation(c *fiber.Ctx) error {
	var request locationController.CreateLocationRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	location, err := h.controller.CreateLocation(c.UserContext(), &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"location": location,
	})
}

func (h *LocationHandler) updateLocation(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid location id")
	}

	var request locationController.UpdateLocationRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	location, err := h.controller.UpdateLocation(c.UserContext(), id, &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"location": location,
	})
}

func (h *LocationHandler) reparentLocation(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid location id")
	}

	var request reparentRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.controller.ReparentLocation(c.UserContext(), id, request.ParentID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LocationHandler) deleteLocation(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid location id")
	}

	if err := h.controller.DeleteLocation(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LocationHandler) getLocation(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid location id")
	}

	location, err := h.controller.GetLocation(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"location": location,
	})
}

func (h *LocationHandler) getTree(c *fiber.Ctx) error {
	tree, err := h.controller.GetTree(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"tree": tree,
	})
}

func (h *LocationHandler) getChildren(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid location id")
	}

	children, err := h.controller.GetChildren(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"children": children,
	})
}

func (h *LocationHandler) getPath(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid location id")
	}

	path, err := h.controller.GetPath(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(path)
}

func (h *LocationHandler) getByType(c *fiber.Ctx) error {
	locationType := models.LocationType(c.Query("type"))
	if !locationType.Valid() {
		return badRequest(c, "Invalid location type")
	}

	locations, err := h.controller.GetByType(c.UserContext(), locationType)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"locations": locations,
	})
}
