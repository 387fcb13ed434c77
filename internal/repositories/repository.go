package repositories

import (
	"upkeep/internal/database"
)

type Repository struct {
	User         UserRepository
	Location     LocationRepository
	Part         PartRepository
	ActivityType ActivityTypeRepository
	Question     QuestionRepository
	Activity     ActivityRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:         NewUserRepository(db.Cache.General),
		Location:     NewLocationRepository(),
		Part:         NewPartRepository(),
		ActivityType: NewActivityTypeRepository(),
		Question:     NewQuestionRepository(db.Cache.General),
		Activity:     NewActivityRepository(),
	}
}
