package jobs

import (
	"context"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// PhotoCleanupJob sweeps the photo storage directory for orphaned
// activity folders once a day.
type PhotoCleanupJob struct {
	fileCleanup *services.FileCleanupService
	log         logger.Logger
	schedule    services.Schedule
}

func NewPhotoCleanupJob(
	fileCleanup *services.FileCleanupService,
	schedule services.Schedule,
) *PhotoCleanupJob {
	return &PhotoCleanupJob{
		fileCleanup: fileCleanup,
		log:         logger.New("photoCleanupJob"),
		schedule:    schedule,
	}
}

func (j *PhotoCleanupJob) Name() string {
	return "PhotoStorageCleanup"
}

func (j *PhotoCleanupJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *PhotoCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if err := j.fileCleanup.CleanupOrphans(ctx); err != nil {
		return log.Err("photo cleanup failed", err)
	}

	return nil
}
