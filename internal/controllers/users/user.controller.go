package userController

import (
	"context"
	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/logger"
	. "upkeep/internal/models"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserController struct {
	userRepo           repositories.UserRepository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type RegisterUserRequest struct {
	FirstName    string  `json:"firstName"  validate:"required"`
	LastName     string  `json:"lastName"   validate:"required"`
	Email        *string `json:"email,omitempty"`
	EmployeeID   string  `json:"employeeId" validate:"required"`
	Shift        string  `json:"shift,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	IsSupervisor bool    `json:"isSupervisor"`
}

type UserControllerInterface interface {
	RegisterUser(ctx context.Context, request *RegisterUserRequest) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmployeeID(ctx context.Context, employeeID string) (*User, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) UserControllerInterface {
	return &UserController{
		userRepo:           repos.User,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
		log:                logger.New("userController"),
	}
}

func (uc *UserController) RegisterUser(
	ctx context.Context,
	request *RegisterUserRequest,
) (*User, error) {
	log := uc.log.Function("RegisterUser")

	if request.EmployeeID == "" {
		return nil, log.ErrMsg("employee id is required")
	}

	user := &User{
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		Email:        request.Email,
		EmployeeID:   request.EmployeeID,
		Shift:        Shift(request.Shift),
		Phone:        request.Phone,
		IsSupervisor: request.IsSupervisor,
		IsActive:     true,
	}

	err := uc.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return uc.userRepo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserController) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return uc.userRepo.GetByID(ctx, uc.db.SQLWithContext(ctx), id)
}

func (uc *UserController) GetUserByEmployeeID(
	ctx context.Context,
	employeeID string,
) (*User, error) {
	return uc.userRepo.GetByEmployeeID(ctx, uc.db.SQLWithContext(ctx), employeeID)
}
