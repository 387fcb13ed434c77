package services

import (
	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Photo       *PhotoService
	Auth        *AuthService
	FileCleanup *FileCleanupService
}

func New(db database.DB, config config.Config, repos repositories.Repository) (Service, error) {
	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService()
	photoService := NewPhotoService(config, repos.Activity, db)

	authService, err := NewAuthService(config)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Transaction: transactionService,
		Scheduler:   schedulerService,
		Photo:       photoService,
		Auth:        authService,
		FileCleanup: NewFileCleanupService(config, db),
	}, nil
}
