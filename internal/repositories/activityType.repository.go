package repositories

import (
	"context"
	"errors"
	"fmt"
	"upkeep/internal/logger"
	. "upkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityTypeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, activityType *ActivityType) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ActivityType, error)
	GetActive(ctx context.Context, tx *gorm.DB) ([]*ActivityType, error)
}

type activityTypeRepository struct {
	log logger.Logger
}

func NewActivityTypeRepository() ActivityTypeRepository {
	return &activityTypeRepository{
		log: logger.New("activityTypeRepository"),
	}
}

func (r *activityTypeRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	activityType *ActivityType,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(activityType).Error; err != nil {
		return log.Err("failed to create activity type", err, "name", activityType.Name)
	}

	return nil
}

func (r *activityTypeRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*ActivityType, error) {
	log := r.log.Function("GetByID")

	var activityType ActivityType
	if err := tx.WithContext(ctx).First(&activityType, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: activity type %s", ErrNotFound, id)
		}
		return nil, log.Err("failed to get activity type", err, "activityTypeID", id)
	}

	return &activityType, nil
}

func (r *activityTypeRepository) GetActive(
	ctx context.Context,
	tx *gorm.DB,
) ([]*ActivityType, error) {
	log := r.log.Function("GetActive")

	var activityTypes []*ActivityType
	if err := tx.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&activityTypes).Error; err != nil {
		return nil, log.Err("failed to get activity types", err)
	}

	return activityTypes, nil
}
