package database

import (
	"upkeep/internal/logger"
	"upkeep/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.Location{},
		&models.PartCategory{},
		&models.Part{},
		&models.ActivityType{},
		&models.StandardQuestion{},
		&models.MaintenanceActivity{},
		&models.PartUsage{},
		&models.ActivityAnswer{},
		&models.ActivityPhoto{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Error("Failed to migrate model", "model", model, "error", err)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_activities_status_scheduled ON maintenance_activities(status, scheduled_date)",
		"CREATE INDEX IF NOT EXISTS idx_activities_technician_status ON maintenance_activities(technician_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_locations_parent_active ON locations(parent_id, is_active)",
	}

	for _, index := range indexes {
		if err := db.SQL.Exec(index).Error; err != nil {
			log.Error("Failed to create index", "sql", index, "error", err)
			return err
		}
	}

	log.Info("Additional indexes created successfully")
	return nil
}
