package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/logger"
	. "upkeep/internal/models"
	"upkeep/internal/repositories"

	"github.com/google/uuid"
)

// PhotoService persists activity photos. It runs outside workflow
// transactions on purpose: a failed photo write never rolls back a
// state transition.
type PhotoService struct {
	storagePath  string
	activityRepo repositories.ActivityRepository
	db           database.DB
	log          logger.Logger
}

func NewPhotoService(
	config config.Config,
	activityRepo repositories.ActivityRepository,
	db database.DB,
) *PhotoService {
	return &PhotoService{
		storagePath:  config.PhotoStoragePath,
		activityRepo: activityRepo,
		db:           db,
		log:          logger.New("photoService"),
	}
}

// Attach writes the photo bytes to disk and records the attachment row.
func (s *PhotoService) Attach(
	ctx context.Context,
	activityID uuid.UUID,
	photoType PhotoType,
	description string,
	filename string,
	data []byte,
) (*ActivityPhoto, error) {
	log := s.log.Function("Attach")

	if len(data) == 0 {
		return nil, log.ErrMsg("photo payload is empty")
	}

	dir := filepath.Join(s.storagePath, activityID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, log.Err("failed to create photo directory", err, "dir", dir)
	}

	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.New().String()[:8], filepath.Ext(filename))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, log.Err("failed to write photo file", err, "path", path)
	}

	photo := &ActivityPhoto{
		ActivityID:  activityID,
		Type:        photoType,
		Path:        path,
		Description: description,
	}

	if err := s.activityRepo.AddPhoto(ctx, s.db.SQL, photo); err != nil {
		// Orphaned file cleanup is best effort.
		if removeErr := os.Remove(path); removeErr != nil {
			log.Warn("failed to remove orphaned photo file", "path", path, "error", removeErr)
		}
		return nil, err
	}

	return photo, nil
}
