package partController

import (
	"context"
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

type PartController struct {
	partRepo           repositories.PartRepository
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	log                logger.Logger
}

type CreatePartRequest struct {
	Code         string           `json:"code" validate:"required"`
	Name         string           `json:"name" validate:"required"`
	CategoryID   uuid.UUID        `json:"categoryId" validate:"required"`
	Description  string           `json:"description,omitempty"`
	MinimumStock decimal.Decimal  `json:"minimumStock"`
	CurrentStock decimal.Decimal  `json:"currentStock"`
	CostPrice    *decimal.Decimal `json:"costPrice,omitempty"`
	Supplier     *string          `json:"supplier,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

type RestockRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

type PartControllerInterface interface {
	CreatePart(ctx context.Context, request *CreatePartRequest) (*Part, error)
	CreateCategory(ctx context.Context, request *CreateCategoryRequest) (*PartCategory, error)
	GetPart(ctx context.Context, id uuid.UUID) (*Part, error)
	ListParts(ctx context.Context) ([]*Part, error)
	Restock(ctx context.Context, id uuid.UUID, request *RestockRequest) (*Part, error)
	LowStockReport(ctx context.Context) ([]*Part, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	db database.DB,
) PartControllerInterface {
	return &PartController{
		partRepo:           repos.Part,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		log:                logger.New("partController"),
	}
}

func (c *PartController) CreatePart(
	ctx context.Context,
	request *CreatePartRequest,
) (*Part, error) {
	part := &Part{
		Code:         request.Code,
		Name:         request.Name,
		CategoryID:   request.CategoryID,
		Description:  request.Description,
		MinimumStock: request.MinimumStock,
		CurrentStock: request.CurrentStock,
		CostPrice:    request.CostPrice,
		Supplier:     request.Supplier,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.partRepo.Create(ctx, tx, part)
	})
	if err != nil {
		return nil, err
	}

	return part, nil
}

func (c *PartController) CreateCategory(
	ctx context.Context,
	request *CreateCategoryRequest,
) (*PartCategory, error) {
	category := &PartCategory{
		Name:        request.Name,
		Description: request.Description,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.partRepo.CreateCategory(ctx, tx, category)
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

func (c *PartController) GetPart(ctx context.Context, id uuid.UUID) (*Part, error) {
	return c.partRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
}

func (c *PartController) ListParts(ctx context.Context) ([]*Part, error) {
	return c.partRepo.List(ctx, c.db.SQLWithContext(ctx))
}

func (c *PartController) Restock(
	ctx context.Context,
	id uuid.UUID,
	request *RestockRequest,
) (*Part, error) {
	var part *Part

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.partRepo.Restock(ctx, tx, id, request.Quantity); err != nil {
			return err
		}

		var err error
		part, err = c.partRepo.GetByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return part, nil
}

func (c *PartController) LowStockReport(ctx context.Context) ([]*Part, error) {
	return c.partRepo.LowStock(ctx, c.db.SQLWithContext(ctx))
}
