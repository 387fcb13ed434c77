package repositories

import (
	"context"
	"errors"
	"fmt"
	"upkeep/internal/logger"
	. "upkeep/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartRepository interface {
	Create(ctx context.Context, tx *gorm.DB, part *Part) error
	CreateCategory(ctx context.Context, tx *gorm.DB, category *PartCategory) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Part, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*Part, error)
	List(ctx context.Context, tx *gorm.DB) ([]*Part, error)
	Consume(ctx context.Context, tx *gorm.DB, partID uuid.UUID, quantity decimal.Decimal) error
	Restock(ctx context.Context, tx *gorm.DB, partID uuid.UUID, quantity decimal.Decimal) error
	LowStock(ctx context.Context, tx *gorm.DB) ([]*Part, error)
}

type partRepository struct {
	log logger.Logger
}

func NewPartRepository() PartRepository {
	return &partRepository{
		log: logger.New("partRepository"),
	}
}

func (r *partRepository) Create(ctx context.Context, tx *gorm.DB, part *Part) error {
	log := r.log.Function("Create")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&Part{}).
		Where("code = ?", part.Code).
		Count(&count).Error; err != nil {
		return log.Err("failed to check part code", err, "code", part.Code)
	}
	if count > 0 {
		return fmt.Errorf("%w: part code %q already in use", ErrDuplicateCode, part.Code)
	}

	if err := tx.WithContext(ctx).Create(part).Error; err != nil {
		return log.Err("failed to create part", err, "code", part.Code)
	}

	return nil
}

func (r *partRepository) CreateCategory(
	ctx context.Context,
	tx *gorm.DB,
	category *PartCategory,
) error {
	log := r.log.Function("CreateCategory")

	if err := tx.WithContext(ctx).Create(category).Error; err != nil {
		return log.Err("failed to create part category", err, "name", category.Name)
	}

	return nil
}

func (r *partRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Part, error) {
	log := r.log.Function("GetByID")

	var part Part
	if err := tx.WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: part %s", ErrNotFound, id)
		}
		return nil, log.Err("failed to get part", err, "partID", id)
	}

	return &part, nil
}

func (r *partRepository) GetByIDs(
	ctx context.Context,
	tx *gorm.DB,
	ids []uuid.UUID,
) (map[uuid.UUID]*Part, error) {
	log := r.log.Function("GetByIDs")

	if len(ids) == 0 {
		return map[uuid.UUID]*Part{}, nil
	}

	var parts []*Part
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&parts).Error; err != nil {
		return nil, log.Err("failed to get parts", err, "count", len(ids))
	}

	byID := make(map[uuid.UUID]*Part, len(parts))
	for _, part := range parts {
		byID[part.ID] = part
	}

	return byID, nil
}

func (r *partRepository) List(ctx context.Context, tx *gorm.DB) ([]*Part, error) {
	log := r.log.Function("List")

	var parts []*Part
	if err := tx.WithContext(ctx).
		Preload("Category").
		Order("code ASC").
		Find(&parts).Error; err != nil {
		return nil, log.Err("failed to list parts", err)
	}

	return parts, nil
}

// Consume atomically decrements current stock. The floor check rides in the
// WHERE clause of a single conditional UPDATE, so two concurrent consumers
// of the same part serialize at the row and a lost update cannot happen.
//
// Over-consumption is rejected with ErrInsufficientStock; stock never goes
// negative.
func (r *partRepository) Consume(
	ctx context.Context,
	tx *gorm.DB,
	partID uuid.UUID,
	quantity decimal.Decimal,
) error {
	log := r.log.Function("Consume")

	if !quantity.IsPositive() {
		return fmt.Errorf("%w: consumption quantity must be positive", ErrInvalidQuantity)
	}

	result := tx.WithContext(ctx).
		Model(&Part{}).
		Where("id = ? AND current_stock >= ?", partID, quantity).
		Update("current_stock", gorm.Expr("current_stock - ?", quantity))
	if result.Error != nil {
		return log.Err("failed to consume stock", result.Error, "partID", partID)
	}

	if result.RowsAffected == 0 {
		// Either the part is missing or the floor check failed; one more
		// read tells them apart.
		part, err := r.GetByID(ctx, tx, partID)
		if err != nil {
			return err
		}
		return fmt.Errorf(
			"%w: part %s has %s in stock, requested %s",
			ErrInsufficientStock, part.Code, part.CurrentStock, quantity,
		)
	}

	return nil
}

// Restock atomically increments current stock.
func (r *partRepository) Restock(
	ctx context.Context,
	tx *gorm.DB,
	partID uuid.UUID,
	quantity decimal.Decimal,
) error {
	log := r.log.Function("Restock")

	if !quantity.IsPositive() {
		return fmt.Errorf("%w: restock quantity must be positive", ErrInvalidQuantity)
	}

	result := tx.WithContext(ctx).
		Model(&Part{}).
		Where("id = ?", partID).
		Update("current_stock", gorm.Expr("current_stock + ?", quantity))
	if result.Error != nil {
		return log.Err("failed to restock part", result.Error, "partID", partID)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: part %s", ErrNotFound, partID)
	}

	return nil
}

func (r *partRepository) LowStock(ctx context.Context, tx *gorm.DB) ([]*Part, error) {
	log := r.log.Function("LowStock")

	var parts []*Part
	if err := tx.WithContext(ctx).
		Where("current_stock < minimum_stock").
		Order("code ASC").
		Find(&parts).Error; err != nil {
		return nil, log.Err("failed to get low stock parts", err)
	}

	return parts, nil
}
