package jobs

import (
	"context"
	"time"
	"upkeep/internal/database"
	"upkeep/internal/events"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// OverdueActivitiesJob flags pending activities whose scheduled date has
// passed and notifies listeners so supervisors can reassign before the day
// is lost.
type OverdueActivitiesJob struct {
	activityRepo repositories.ActivityRepository
	eventBus     *events.EventBus
	db           database.DB
	log          logger.Logger
	schedule     services.Schedule
}

func NewOverdueActivitiesJob(
	activityRepo repositories.ActivityRepository,
	eventBus *events.EventBus,
	db database.DB,
	schedule services.Schedule,
) *OverdueActivitiesJob {
	log := logger.New("overdueActivitiesJob")
	log.Info("Creating overdue activities job", "schedule", schedule)

	return &OverdueActivitiesJob{
		activityRepo: activityRepo,
		eventBus:     eventBus,
		db:           db,
		log:          log,
		schedule:     schedule,
	}
}

func (j *OverdueActivitiesJob) Name() string {
	return "OverdueActivitiesCheck"
}

func (j *OverdueActivitiesJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *OverdueActivitiesJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	now := time.Now().UTC()
	overdue, err := j.activityRepo.ListOverdue(ctx, j.db.SQL, now)
	if err != nil {
		return log.Err("failed to list overdue activities", err)
	}

	if len(overdue) == 0 {
		log.Info("No overdue activities")
		return nil
	}

	log.Info("Found overdue activities", "count", len(overdue))

	for _, activity := range overdue {
		err := j.eventBus.Publish(events.ACTIVITY_CHANNEL, events.Event{
			Type:   events.ACTIVITY_OVERDUE,
			UserID: &activity.TechnicianID,
			Data: map[string]any{
				"activityId":    activity.ID.String(),
				"title":         activity.Title,
				"scheduledDate": activity.ScheduledDate,
				"locationId":    activity.LocationID.String(),
			},
		})
		if err != nil {
			// Keep going, the next run will pick this one up again.
			log.Er("failed to publish overdue event", err, "activityID", activity.ID)
		}
	}

	return nil
}
