package initialize

import (
	"upkeep/config"
	. "upkeep/internal/models"

	logger "upkeep/internal/logger"

	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeActivityTypes(db, log); err != nil {
		return log.Err("failed to initialize activity types", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeActivityTypes seeds the baseline maintenance catalog every
// installation starts from.
func initializeActivityTypes(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing activity type reference data")

	activityTypes := []ActivityType{
		{
			Name:          "Manutenção Preventiva",
			Description:   "Manutenção preventiva programada",
			RequiresParts: true,
			IsActive:      true,
		},
		{
			Name:          "Manutenção Corretiva",
			Description:   "Manutenção corretiva não programada",
			RequiresParts: true,
			IsActive:      true,
		},
		{
			Name:          "Inspeção",
			Description:   "Inspeção de rotina sem troca de peças",
			RequiresParts: false,
			IsActive:      true,
		},
	}

	for _, activityType := range activityTypes {
		var existing ActivityType
		if err := db.First(&existing, "name = ?", activityType.Name).Error; err == nil {
			log.Debug("Activity type already exists", "name", activityType.Name)
			continue
		}
		log.Info("Initializing activity type", "name", activityType.Name)
		if err := db.Create(&activityType).Error; err != nil {
			return log.Err("failed to create activity type", err, "name", activityType.Name)
		}
	}

	log.Info("Activity type reference data initialized", "count", len(activityTypes))
	return nil
}
