package app

import (
	"context"
	"upkeep/config"
	"upkeep/internal/controllers"
	"upkeep/internal/database"
	"upkeep/internal/events"
	"upkeep/internal/handlers/middleware"
	"upkeep/internal/jobs"
	"upkeep/internal/logger"
	"upkeep/internal/repositories"
	"upkeep/internal/services"
	"upkeep/internal/websockets"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	appServices, err := services.New(db, config, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(db, eventBus, config, appServices.Auth, repos.User)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	appMiddleware := middleware.New(db, eventBus, config, repos)
	appControllers := controllers.New(appServices, repos, eventBus, config, db)

	// Register jobs with scheduler if enabled
	if config.SchedulerEnabled {
		overdueJob := jobs.NewOverdueActivitiesJob(
			repos.Activity,
			eventBus,
			db,
			services.Hourly,
		)
		if err := appServices.Scheduler.AddJob(overdueJob); err != nil {
			return &App{}, log.Err("failed to register overdue activities job", err)
		}
		log.Info("Registered overdue activities job with scheduler")

		photoCleanupJob := jobs.NewPhotoCleanupJob(appServices.FileCleanup, services.Daily)
		if err := appServices.Scheduler.AddJob(photoCleanupJob); err != nil {
			return &App{}, log.Err("failed to register photo cleanup job", err)
		}
		log.Info("Registered photo cleanup job with scheduler")
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  appMiddleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Services:    appServices,
		Repos:       repos,
		Controllers: appControllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Photo,
		a.Services.Auth,
		a.Repos.User,
		a.Repos.Location,
		a.Repos.Part,
		a.Repos.ActivityType,
		a.Repos.Question,
		a.Repos.Activity,
		a.Controllers.User,
		a.Controllers.Location,
		a.Controllers.Part,
		a.Controllers.Catalog,
		a.Controllers.Activity,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
