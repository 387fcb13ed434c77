package handlers

import (
	"io"
	"upkeep/internal/app"
	"upkeep/internal/handlers/middleware"
	"upkeep/internal/logger"
	"upkeep/internal/models"

	activityController "upkeep/internal/controllers/activities"

	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	Handler
	controller activityController.ActivityControllerInterface
	app        app.App
}

func NewActivityHandler(app app.App, router fiber.Router) *ActivityHandler {
	log := logger.New("handlers").File("activity_handler")
	return &ActivityHandler{
		controller: app.Controllers.Activity,
		app:        app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ActivityHandler) Register() {
	activities := h.router.Group("/activities", h.middleware.RequireAuth(h.app.Services.Auth))

	activities.Post("/", h.createActivity)
	activities.Get("/overdue", h.listOverdue)
	activities.Get("/:id", h.getActivity)
	activities.Post("/:id/start", h.startActivity)
	activities.Post("/:id/complete", h.completeActivity)
	activities.Post("/:id/cancel", h.cancelActivity)
	activities.Post("/:id/photos", h.attachPhoto)
}

func (h *ActivityHandler) createActivity(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var request activityController.CreateActivityRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	activity, err := h.controller.CreateActivity(c.UserContext(), actor, &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"activity": activity,
	})
}

func (h *ActivityHandler) getActivity(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid activity id")
	}

	activity, err := h.controller.GetActivity(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"activity": activity,
	})
}

func (h *ActivityHandler) startActivity(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid activity id")
	}

	var request activityController.StartActivityRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&request); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	activity, err := h.controller.StartActivity(c.UserContext(), actor, id, &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"activity": activity,
	})
}

func (h *ActivityHandler) completeActivity(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid activity id")
	}

	var request activityController.CompleteActivityRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	activity, err := h.controller.CompleteActivity(c.UserContext(), actor, id, &request)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"activity": activity,
	})
}

func (h *ActivityHandler) cancelActivity(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid activity id")
	}

	activity, err := h.controller.CancelActivity(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"activity": activity,
	})
}

func (h *ActivityHandler) listOverdue(c *fiber.Ctx) error {
	activities, err := h.controller.ListOverdue(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"activities": activities,
	})
}

func (h *ActivityHandler) attachPhoto(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid activity id")
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "photo file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "could not read photo file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return badRequest(c, "could not read photo file")
	}

	photoType := models.PhotoType(c.FormValue("type"))

	photo, err := h.controller.AttachPhoto(c.UserContext(), actor, id, &activityController.AttachPhotoRequest{
		Type:        photoType,
		Description: c.FormValue("description"),
		Filename:    fileHeader.Filename,
		Data:        data,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"photo": photo,
	})
}
