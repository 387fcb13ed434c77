package controllers

import (
	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/events"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	activityController "upkeep/internal/controllers/activities"
	catalogController "upkeep/internal/controllers/catalog"
	locationController "upkeep/internal/controllers/locations"
	partController "upkeep/internal/controllers/parts"
	userController "upkeep/internal/controllers/users"
)

type Controllers struct {
	User     userController.UserControllerInterface
	Location locationController.LocationControllerInterface
	Part     partController.PartControllerInterface
	Catalog  catalogController.CatalogControllerInterface
	Activity activityController.ActivityControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		User:     userController.New(repos, services, config, db),
		Location: locationController.New(repos, services, config, db),
		Part:     partController.New(repos, services, eventBus, db),
		Catalog:  catalogController.New(repos, services, db),
		Activity: activityController.New(repos, services, eventBus, config, db),
	}
}
