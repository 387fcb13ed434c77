package catalogController

import (
	"context"
	"time"
	"upkeep/internal/database"
	"upkeep/internal/logger"
	. "upkeep/internal/models"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogController manages activity types and their checklist questions.
type CatalogController struct {
	activityTypeRepo   repositories.ActivityTypeRepository
	questionRepo       repositories.QuestionRepository
	transactionService *services.TransactionService
	db                 database.DB
	log                logger.Logger
}

type CreateActivityTypeRequest struct {
	Name          string         `json:"name" validate:"required"`
	Description   string         `json:"description,omitempty"`
	EstimatedTime *time.Duration `json:"estimatedTime,omitempty"`
	RequiresParts bool           `json:"requiresParts"`
}

type CreateQuestionRequest struct {
	ActivityTypeID uuid.UUID      `json:"activityTypeId" validate:"required"`
	Question       string         `json:"question"       validate:"required"`
	Type           QuestionType   `json:"type"           validate:"required"`
	Choices        datatypes.JSON `json:"choices,omitempty"`
	IsRequired     bool           `json:"isRequired"`
	Order          int            `json:"order"`
}

type CatalogControllerInterface interface {
	CreateActivityType(ctx context.Context, request *CreateActivityTypeRequest) (*ActivityType, error)
	GetActivityType(ctx context.Context, id uuid.UUID) (*ActivityType, error)
	ListActiveTypes(ctx context.Context) ([]*ActivityType, error)
	CreateQuestion(ctx context.Context, request *CreateQuestionRequest) (*StandardQuestion, error)
	QuestionsFor(ctx context.Context, activityTypeID uuid.UUID) ([]*StandardQuestion, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) CatalogControllerInterface {
	return &CatalogController{
		activityTypeRepo:   repos.ActivityType,
		questionRepo:       repos.Question,
		transactionService: services.Transaction,
		db:                 db,
		log:                logger.New("catalogController"),
	}
}

func (c *CatalogController) CreateActivityType(
	ctx context.Context,
	request *CreateActivityTypeRequest,
) (*ActivityType, error) {
	activityType := &ActivityType{
		Name:          request.Name,
		Description:   request.Description,
		EstimatedTime: request.EstimatedTime,
		RequiresParts: request.RequiresParts,
		IsActive:      true,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.activityTypeRepo.Create(ctx, tx, activityType)
	})
	if err != nil {
		return nil, err
	}

	return activityType, nil
}

func (c *CatalogController) GetActivityType(
	ctx context.Context,
	id uuid.UUID,
) (*ActivityType, error) {
	return c.activityTypeRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
}

func (c *CatalogController) ListActiveTypes(ctx context.Context) ([]*ActivityType, error) {
	return c.activityTypeRepo.GetActive(ctx, c.db.SQLWithContext(ctx))
}

func (c *CatalogController) CreateQuestion(
	ctx context.Context,
	request *CreateQuestionRequest,
) (*StandardQuestion, error) {
	log := c.log.Function("CreateQuestion")

	if !request.Type.Valid() {
		return nil, log.ErrMsg("invalid question type")
	}

	question := &StandardQuestion{
		ActivityTypeID: request.ActivityTypeID,
		Question:       request.Question,
		Type:           request.Type,
		Choices:        request.Choices,
		IsRequired:     request.IsRequired,
		Order:          request.Order,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.activityTypeRepo.GetByID(ctx, tx, request.ActivityTypeID); err != nil {
			return err
		}
		return c.questionRepo.Create(ctx, tx, question)
	})
	if err != nil {
		return nil, err
	}

	return question, nil
}

func (c *CatalogController) QuestionsFor(
	ctx context.Context,
	activityTypeID uuid.UUID,
) ([]*StandardQuestion, error) {
	return c.questionRepo.QuestionsFor(ctx, c.db.SQLWithContext(ctx), activityTypeID)
}
