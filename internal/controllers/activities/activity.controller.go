package activityController

import (
	"context"
	"fmt"
	"time"
	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/events"
	"upkeep/internal/logger"
	. "upkeep/internal/models"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ActivityController struct {
	activityRepo       repositories.ActivityRepository
	activityTypeRepo   repositories.ActivityTypeRepository
	locationRepo       repositories.LocationRepository
	partRepo           repositories.PartRepository
	questionRepo       repositories.QuestionRepository
	transactionService *services.TransactionService
	photoService       *services.PhotoService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateActivityRequest struct {
	TechnicianID      *uuid.UUID       `json:"technicianId,omitempty"`
	ActivityTypeID    uuid.UUID        `json:"activityTypeId" validate:"required"`
	LocationID        uuid.UUID        `json:"locationId"     validate:"required"`
	Title             string           `json:"title"          validate:"required"`
	Description       string           `json:"description,omitempty"`
	Priority          ActivityPriority `json:"priority,omitempty"`
	ScheduledDate     *time.Time       `json:"scheduledDate,omitempty"`
	EstimatedDuration *time.Duration   `json:"estimatedDuration,omitempty"`
}

type StartActivityRequest struct {
	Observations *string `json:"observations,omitempty"`
}

// AnswerInput carries one checklist answer. The payload field matching the
// question's declared type is the one recorded; the others are discarded.
type AnswerInput struct {
	QuestionID uuid.UUID        `json:"questionId" validate:"required"`
	Text       *string          `json:"text,omitempty"`
	Number     *decimal.Decimal `json:"number,omitempty"`
	Boolean    *bool            `json:"boolean,omitempty"`
}

type PartUsageInput struct {
	PartID       uuid.UUID        `json:"partId"   validate:"required"`
	Quantity     decimal.Decimal  `json:"quantity" validate:"required"`
	UnitCost     *decimal.Decimal `json:"unitCost,omitempty"`
	Observations string           `json:"observations,omitempty"`
}

type CompleteActivityRequest struct {
	Observations *string          `json:"observations,omitempty"`
	Answers      []AnswerInput    `json:"answers,omitempty"`
	PartsUsed    []PartUsageInput `json:"partsUsed,omitempty"`
}

type AttachPhotoRequest struct {
	Type        PhotoType `json:"type"`
	Description string    `json:"description,omitempty"`
	Filename    string    `json:"filename"`
	Data        []byte    `json:"data"`
}

type ActivityControllerInterface interface {
	CreateActivity(ctx context.Context, actor Actor, request *CreateActivityRequest) (*MaintenanceActivity, error)
	GetActivity(ctx context.Context, actor Actor, id uuid.UUID) (*MaintenanceActivity, error)
	StartActivity(ctx context.Context, actor Actor, id uuid.UUID, request *StartActivityRequest) (*MaintenanceActivity, error)
	CompleteActivity(ctx context.Context, actor Actor, id uuid.UUID, request *CompleteActivityRequest) (*MaintenanceActivity, error)
	CancelActivity(ctx context.Context, actor Actor, id uuid.UUID) (*MaintenanceActivity, error)
	ListOverdue(ctx context.Context) ([]*MaintenanceActivity, error)
	AttachPhoto(ctx context.Context, actor Actor, id uuid.UUID, request *AttachPhotoRequest) (*ActivityPhoto, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) ActivityControllerInterface {
	return &ActivityController{
		activityRepo:       repos.Activity,
		activityTypeRepo:   repos.ActivityType,
		locationRepo:       repos.Location,
		partRepo:           repos.Part,
		questionRepo:       repos.Question,
		transactionService: services.Transaction,
		photoService:       services.Photo,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("activityController"),
	}
}

func (c *ActivityController) CreateActivity(
	ctx context.Context,
	actor Actor,
	request *CreateActivityRequest,
) (*MaintenanceActivity, error) {
	log := c.log.Function("CreateActivity")

	if request.Title == "" {
		return nil, log.ErrMsg("title is required")
	}

	technicianID, err := uuid.Parse(actor.ID)
	if err != nil {
		return nil, log.Err("invalid actor id", err)
	}
	if request.TechnicianID != nil {
		// Only supervisors assign work to someone else.
		if *request.TechnicianID != technicianID && !actor.IsSupervisor {
			return nil, fmt.Errorf("%w: only supervisors may assign activities", ErrForbidden)
		}
		technicianID = *request.TechnicianID
	}

	activity := &MaintenanceActivity{
		TechnicianID:      technicianID,
		ActivityTypeID:    request.ActivityTypeID,
		LocationID:        request.LocationID,
		Title:             request.Title,
		Description:       request.Description,
		Status:            ActivityStatusPending,
		Priority:          request.Priority,
		ScheduledDate:     request.ScheduledDate,
		EstimatedDuration: request.EstimatedDuration,
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		activityType, err := c.activityTypeRepo.GetByID(ctx, tx, request.ActivityTypeID)
		if err != nil {
			return err
		}
		if !activityType.IsActive {
			return fmt.Errorf("%w: activity type %s is inactive", ErrNotFound, activityType.Name)
		}

		location, err := c.locationRepo.GetByID(ctx, tx, request.LocationID)
		if err != nil {
			return err
		}
		if !location.IsActive {
			return fmt.Errorf("%w: location %s is inactive", ErrNotFound, location.Code)
		}

		if activity.EstimatedDuration == nil {
			activity.EstimatedDuration = activityType.EstimatedTime
		}

		return c.activityRepo.Create(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	c.publish(events.ACTIVITY_CREATED, activity)

	return activity, nil
}

func (c *ActivityController) GetActivity(
	ctx context.Context,
	actor Actor,
	id uuid.UUID,
) (*MaintenanceActivity, error) {
	activity, err := c.activityRepo.GetWithDetails(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	if err := guard(actor, activity); err != nil {
		return nil, err
	}

	return activity, nil
}

// StartActivity moves pending -> in_progress for the assigned technician
// or a supervisor, stamping started_at.
func (c *ActivityController) StartActivity(
	ctx context.Context,
	actor Actor,
	id uuid.UUID,
	request *StartActivityRequest,
) (*MaintenanceActivity, error) {
	activity, err := c.activityRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	if err := guard(actor, activity); err != nil {
		return nil, err
	}

	startedAt := time.Now()
	var observations *string
	if request != nil {
		observations = request.Observations
	}

	if err := c.activityRepo.MarkStarted(ctx, c.db.SQLWithContext(ctx), id, startedAt, observations); err != nil {
		return nil, err
	}

	activity, err = c.activityRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	c.publish(events.ACTIVITY_STARTED, activity)

	return activity, nil
}

// CompleteActivity is the one multi-step transition. Validation happens
// before any write, and the state change, answer upserts, part usage rows
// and stock decrements all commit or roll back together.
func (c *ActivityController) CompleteActivity(
	ctx context.Context,
	actor Actor,
	id uuid.UUID,
	request *CompleteActivityRequest,
) (*MaintenanceActivity, error) {
	log := c.log.Function("CompleteActivity")

	if request == nil {
		request = &CompleteActivityRequest{}
	}

	var completed *MaintenanceActivity
	var lowStock []*Part

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		activity, err := c.activityRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := guard(actor, activity); err != nil {
			return err
		}

		answers, err := c.resolveAnswers(ctx, tx, activity, request.Answers)
		if err != nil {
			return err
		}

		usages, consumptions, low, err := c.resolveUsages(ctx, tx, activity, request.PartsUsed)
		if err != nil {
			return err
		}

		completedAt := time.Now()
		var actualDuration time.Duration
		if activity.StartedAt != nil {
			actualDuration = completedAt.Sub(*activity.StartedAt)
		}

		if err := c.activityRepo.MarkCompleted(
			ctx, tx, id, completedAt, actualDuration, request.Observations,
		); err != nil {
			return err
		}

		if err := c.activityRepo.UpsertAnswers(ctx, tx, answers); err != nil {
			return err
		}

		if err := c.activityRepo.CreateUsages(ctx, tx, usages); err != nil {
			return err
		}

		for _, consumption := range consumptions {
			if err := c.partRepo.Consume(ctx, tx, consumption.partID, consumption.quantity); err != nil {
				return err
			}
		}

		lowStock = low
		completed, err = c.activityRepo.GetWithDetails(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.publish(events.ACTIVITY_COMPLETED, completed)
	for _, part := range lowStock {
		c.publishLowStock(part)
	}

	log.Info("activity completed",
		"activityID", id,
		"answers", len(request.Answers),
		"partsUsed", len(request.PartsUsed),
	)

	return completed, nil
}

func (c *ActivityController) CancelActivity(
	ctx context.Context,
	actor Actor,
	id uuid.UUID,
) (*MaintenanceActivity, error) {
	activity, err := c.activityRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	if err := guard(actor, activity); err != nil {
		return nil, err
	}

	if err := c.activityRepo.MarkCancelled(ctx, c.db.SQLWithContext(ctx), id); err != nil {
		return nil, err
	}

	activity, err = c.activityRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	c.publish(events.ACTIVITY_CANCELLED, activity)

	return activity, nil
}

func (c *ActivityController) ListOverdue(ctx context.Context) ([]*MaintenanceActivity, error) {
	return c.activityRepo.ListOverdue(ctx, c.db.SQLWithContext(ctx), time.Now())
}

func (c *ActivityController) AttachPhoto(
	ctx context.Context,
	actor Actor,
	id uuid.UUID,
	request *AttachPhotoRequest,
) (*ActivityPhoto, error) {
	activity, err := c.activityRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	if err := guard(actor, activity); err != nil {
		return nil, err
	}

	return c.photoService.Attach(ctx, id, request.Type, request.Description, request.Filename, request.Data)
}

// guard admits the assigned technician and any supervisor.
func guard(actor Actor, activity *MaintenanceActivity) error {
	if actor.IsSupervisor {
		return nil
	}
	if actor.ID == activity.TechnicianID.String() {
		return nil
	}
	return fmt.Errorf(
		"%w: actor %s is not assigned to activity %s",
		ErrForbidden, actor.ID, activity.ID,
	)
}

// resolveAnswers validates every question id against the catalog and
// collapses duplicate answers so the last-supplied value wins. The payload
// field is chosen by the question's declared type.
func (c *ActivityController) resolveAnswers(
	ctx context.Context,
	tx *gorm.DB,
	activity *MaintenanceActivity,
	inputs []AnswerInput,
) ([]*ActivityAnswer, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	questions, err := c.questionRepo.QuestionsFor(ctx, tx, activity.ActivityTypeID)
	if err != nil {
		return nil, err
	}

	questionsByID := make(map[uuid.UUID]*StandardQuestion, len(questions))
	for _, question := range questions {
		questionsByID[question.ID] = question
	}

	byQuestion := make(map[uuid.UUID]*ActivityAnswer, len(inputs))
	order := make([]uuid.UUID, 0, len(inputs))

	for _, input := range inputs {
		question, ok := questionsByID[input.QuestionID]
		if !ok {
			return nil, fmt.Errorf(
				"%w: question %s does not belong to activity type %s",
				ErrUnknownQuestion, input.QuestionID, activity.ActivityTypeID,
			)
		}

		answer := &ActivityAnswer{
			ActivityID: activity.ID,
			QuestionID: input.QuestionID,
		}

		switch question.Type {
		case QuestionTypeYesNo:
			answer.Boolean = input.Boolean
		case QuestionTypeNumber:
			answer.Number = input.Number
		default:
			answer.Text = input.Text
		}

		if _, seen := byQuestion[input.QuestionID]; !seen {
			order = append(order, input.QuestionID)
		}
		byQuestion[input.QuestionID] = answer
	}

	answers := make([]*ActivityAnswer, 0, len(byQuestion))
	for _, questionID := range order {
		answers = append(answers, byQuestion[questionID])
	}

	return answers, nil
}

type consumption struct {
	partID   uuid.UUID
	quantity decimal.Decimal
}

// resolveUsages accumulates duplicate part entries into one usage row and
// one decrement per part, validates part ids up front, and reports which
// parts will fall below their minimum once the decrement lands.
func (c *ActivityController) resolveUsages(
	ctx context.Context,
	tx *gorm.DB,
	activity *MaintenanceActivity,
	inputs []PartUsageInput,
) ([]*PartUsage, []consumption, []*Part, error) {
	if len(inputs) == 0 {
		return nil, nil, nil, nil
	}

	byPart := make(map[uuid.UUID]*PartUsage, len(inputs))
	order := make([]uuid.UUID, 0, len(inputs))

	for _, input := range inputs {
		if !input.Quantity.IsPositive() {
			return nil, nil, nil, fmt.Errorf(
				"%w: quantity for part %s must be positive",
				ErrInvalidQuantity, input.PartID,
			)
		}

		usage, seen := byPart[input.PartID]
		if !seen {
			byPart[input.PartID] = &PartUsage{
				ActivityID:   activity.ID,
				PartID:       input.PartID,
				Quantity:     input.Quantity,
				UnitCost:     input.UnitCost,
				Observations: input.Observations,
			}
			order = append(order, input.PartID)
			continue
		}

		usage.Quantity = usage.Quantity.Add(input.Quantity)
		if input.UnitCost != nil {
			usage.UnitCost = input.UnitCost
		}
		if input.Observations != "" {
			usage.Observations = input.Observations
		}
	}

	parts, err := c.partRepo.GetByIDs(ctx, tx, order)
	if err != nil {
		return nil, nil, nil, err
	}

	usages := make([]*PartUsage, 0, len(order))
	consumptions := make([]consumption, 0, len(order))
	lowStock := make([]*Part, 0)

	for _, partID := range order {
		part, ok := parts[partID]
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: part %s", ErrUnknownPart, partID)
		}

		usage := byPart[partID]
		if usage.UnitCost == nil {
			usage.UnitCost = part.CostPrice
		}

		usages = append(usages, usage)
		consumptions = append(consumptions, consumption{partID: partID, quantity: usage.Quantity})

		if part.CurrentStock.Sub(usage.Quantity).LessThan(part.MinimumStock) {
			lowStock = append(lowStock, part)
		}
	}

	return usages, consumptions, lowStock, nil
}

// publish is fire-and-forget: event delivery never affects the outcome of
// a transition that already committed.
func (c *ActivityController) publish(messageType events.MessageType, activity *MaintenanceActivity) {
	if c.eventBus == nil || activity == nil {
		return
	}

	log := c.log.Function("publish")

	err := c.eventBus.Publish(events.ACTIVITY_CHANNEL, events.Event{
		Type:   messageType,
		UserID: &activity.TechnicianID,
		Data: map[string]any{
			"activityId": activity.ID.String(),
			"title":      activity.Title,
			"status":     activity.Status,
			"locationId": activity.LocationID.String(),
		},
	})
	if err != nil {
		log.Warn("failed to publish activity event", "type", messageType, "error", err)
	}
}

func (c *ActivityController) publishLowStock(part *Part) {
	if c.eventBus == nil || part == nil {
		return
	}

	log := c.log.Function("publishLowStock")

	err := c.eventBus.Publish(events.STOCK_CHANNEL, events.Event{
		Type: events.STOCK_LOW,
		Data: map[string]any{
			"partId":       part.ID.String(),
			"code":         part.Code,
			"minimumStock": part.MinimumStock.String(),
		},
	})
	if err != nil {
		log.Warn("failed to publish low stock event", "partID", part.ID, "error", err)
	}
}
