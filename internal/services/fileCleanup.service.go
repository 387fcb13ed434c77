package services

import (
	"context"
	"os"
	"path/filepath"
	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/logger"
	. "upkeep/internal/models"

	"github.com/google/uuid"
)

// FileCleanupService removes photo directories that no longer have a
// database record backing them, so aborted uploads and deleted activities
// do not leak disk.
type FileCleanupService struct {
	config config.Config
	db     database.DB
	log    logger.Logger
}

func NewFileCleanupService(config config.Config, db database.DB) *FileCleanupService {
	return &FileCleanupService{
		config: config,
		db:     db,
		log:    logger.New("fileCleanupService"),
	}
}

type StoredFile struct {
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	ActivityID string `json:"activityId"`
}

func (fcs *FileCleanupService) ListStoredFiles(ctx context.Context) ([]StoredFile, error) {
	log := fcs.log.Function("ListStoredFiles")

	root := fcs.config.PhotoStoragePath
	if _, err := os.Stat(root); os.IsNotExist(err) {
		log.Info("Photo storage directory does not exist", "directory", root)
		return []StoredFile{}, nil
	}

	var files []StoredFile

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, StoredFile{
			Path:       relPath,
			Size:       info.Size(),
			ActivityID: filepath.Dir(relPath),
		})

		return nil
	})
	if err != nil {
		return nil, log.Err("failed to walk photo storage", err, "directory", root)
	}

	log.Info("Listed stored photos", "count", len(files))
	return files, nil
}

// CleanupOrphans removes per-activity directories whose activity has no
// photo records left.
func (fcs *FileCleanupService) CleanupOrphans(ctx context.Context) error {
	log := fcs.log.Function("CleanupOrphans")

	root := fcs.config.PhotoStoragePath
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("Photo storage directory does not exist, nothing to cleanup", "directory", root)
			return nil
		}
		return log.Err("failed to read photo storage", err, "directory", root)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		activityID, err := uuid.Parse(entry.Name())
		if err != nil {
			// Not an activity directory, leave it alone.
			continue
		}

		var count int64
		if err := fcs.db.SQL.WithContext(ctx).
			Model(&ActivityPhoto{}).
			Where("activity_id = ?", activityID).
			Count(&count).Error; err != nil {
			return log.Err("failed to count photos", err, "activityID", activityID)
		}
		if count > 0 {
			continue
		}

		entryPath := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(entryPath); err != nil {
			log.Er("failed to remove orphan photo directory", err, "path", entryPath)
			continue
		}
		removed++
	}

	log.Info("Orphan photo cleanup complete", "removed", removed)
	return nil
}
