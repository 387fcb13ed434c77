package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"
	"upkeep/internal/database"
	"upkeep/internal/logger"
	. "upkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	USER_CACHE_PREFIX = "user"
	USER_CACHE_EXPIRY = 24 * time.Hour
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByEmployeeID(ctx context.Context, tx *gorm.DB, employeeID string) (*User, error)
	ClearUserCache(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "employeeID", user.EmployeeID)
	}

	return nil
}

func (r *userRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*User, error) {
	log := r.log.Function("GetByID")

	if r.cache != nil {
		var cached User
		found, err := database.NewCacheBuilder(r.cache, id.String()).
			WithContext(ctx).
			WithHash(USER_CACHE_PREFIX).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get user from cache", "userID", id, "error", err)
		}
		if found {
			return &cached, nil
		}
	}

	var user User
	if err := tx.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, log.Err("failed to get user", err, "userID", id)
	}

	if r.cache != nil {
		err := database.NewCacheBuilder(r.cache, id.String()).
			WithContext(ctx).
			WithHash(USER_CACHE_PREFIX).
			WithStruct(user).
			WithTTL(USER_CACHE_EXPIRY).
			Set()
		if err != nil {
			log.Warn("failed to cache user", "userID", id, "error", err)
		}
	}

	return &user, nil
}

func (r *userRepository) GetByEmployeeID(
	ctx context.Context,
	tx *gorm.DB,
	employeeID string,
) (*User, error) {
	log := r.log.Function("GetByEmployeeID")

	var user User
	if err := tx.WithContext(ctx).First(&user, "employee_id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: employee %s", ErrNotFound, employeeID)
		}
		return nil, log.Err("failed to get user", err, "employeeID", employeeID)
	}

	return &user, nil
}

func (r *userRepository) ClearUserCache(ctx context.Context, id uuid.UUID) error {
	if r.cache == nil {
		return nil
	}

	return database.NewCacheBuilder(r.cache, id.String()).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Delete()
}
