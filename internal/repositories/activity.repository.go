package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"
	"upkeep/internal/logger"
	. "upkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository interface {
	Create(ctx context.Context, tx *gorm.DB, activity *MaintenanceActivity) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MaintenanceActivity, error)
	GetWithDetails(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MaintenanceActivity, error)
	MarkStarted(ctx context.Context, tx *gorm.DB, id uuid.UUID, startedAt time.Time, observations *string) error
	MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, completedAt time.Time, actualDuration time.Duration, observations *string) error
	MarkCancelled(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	UpsertAnswers(ctx context.Context, tx *gorm.DB, answers []*ActivityAnswer) error
	CreateUsages(ctx context.Context, tx *gorm.DB, usages []*PartUsage) error
	ListOverdue(ctx context.Context, tx *gorm.DB, now time.Time) ([]*MaintenanceActivity, error)
	AddPhoto(ctx context.Context, tx *gorm.DB, photo *ActivityPhoto) error
}

type activityRepository struct {
	log logger.Logger
}

func NewActivityRepository() ActivityRepository {
	return &activityRepository{
		log: logger.New("activityRepository"),
	}
}

func (r *activityRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	activity *MaintenanceActivity,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(activity).Error; err != nil {
		return log.Err("failed to create activity", err, "title", activity.Title)
	}

	return nil
}

func (r *activityRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*MaintenanceActivity, error) {
	log := r.log.Function("GetByID")

	var activity MaintenanceActivity
	if err := tx.WithContext(ctx).First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: activity %s", ErrNotFound, id)
		}
		return nil, log.Err("failed to get activity", err, "activityID", id)
	}

	return &activity, nil
}

func (r *activityRepository) GetWithDetails(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*MaintenanceActivity, error) {
	log := r.log.Function("GetWithDetails")

	var activity MaintenanceActivity
	if err := tx.WithContext(ctx).
		Preload("Technician").
		Preload("ActivityType").
		Preload("Location").
		Preload("PartsUsed").
		Preload("PartsUsed.Part").
		Preload("Answers").
		Preload("Photos").
		First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: activity %s", ErrNotFound, id)
		}
		return nil, log.Err("failed to get activity details", err, "activityID", id)
	}

	return &activity, nil
}

// MarkStarted moves pending -> in_progress. The source status rides in the
// WHERE clause, so of two concurrent callers exactly one wins and the other
// observes InvalidTransition.
func (r *activityRepository) MarkStarted(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	startedAt time.Time,
	observations *string,
) error {
	updates := map[string]any{
		"status":     ActivityStatusInProgress,
		"started_at": startedAt,
	}
	if observations != nil {
		updates["observations"] = *observations
	}

	return r.transition(ctx, tx, id, "start", updates, ActivityStatusPending)
}

// MarkCompleted moves in_progress -> completed and records timing. The
// caller is responsible for running it inside the same transaction as the
// answer writes and stock decrements.
func (r *activityRepository) MarkCompleted(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	completedAt time.Time,
	actualDuration time.Duration,
	observations *string,
) error {
	updates := map[string]any{
		"status":          ActivityStatusCompleted,
		"completed_at":    completedAt,
		"actual_duration": actualDuration,
	}
	if observations != nil {
		updates["observations"] = *observations
	}

	return r.transition(ctx, tx, id, "complete", updates, ActivityStatusInProgress)
}

func (r *activityRepository) MarkCancelled(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) error {
	updates := map[string]any{
		"status": ActivityStatusCancelled,
	}

	return r.transition(ctx, tx, id, "cancel", updates,
		ActivityStatusPending, ActivityStatusInProgress)
}

func (r *activityRepository) transition(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	name string,
	updates map[string]any,
	from ...ActivityStatus,
) error {
	log := r.log.Function("transition")

	result := tx.WithContext(ctx).
		Model(&MaintenanceActivity{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return log.Err("failed to transition activity", result.Error,
			"activityID", id, "transition", name)
	}

	if result.RowsAffected == 0 {
		activity, err := r.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return NewInvalidTransition(activity.Status, name)
	}

	return nil
}

// UpsertAnswers writes checklist answers keyed by (activity, question),
// replacing the payload when an answer already exists.
func (r *activityRepository) UpsertAnswers(
	ctx context.Context,
	tx *gorm.DB,
	answers []*ActivityAnswer,
) error {
	log := r.log.Function("UpsertAnswers")

	if len(answers) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "activity_id"},
				{Name: "question_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"answer_text",
				"answer_number",
				"answer_boolean",
				"updated_at",
			}),
		}).
		Create(answers).Error; err != nil {
		return log.Err("failed to upsert answers", err, "count", len(answers))
	}

	return nil
}

func (r *activityRepository) CreateUsages(
	ctx context.Context,
	tx *gorm.DB,
	usages []*PartUsage,
) error {
	log := r.log.Function("CreateUsages")

	if len(usages) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).Create(usages).Error; err != nil {
		return log.Err("failed to create part usages", err, "count", len(usages))
	}

	return nil
}

// ListOverdue returns pending activities whose scheduled date has passed.
func (r *activityRepository) ListOverdue(
	ctx context.Context,
	tx *gorm.DB,
	now time.Time,
) ([]*MaintenanceActivity, error) {
	log := r.log.Function("ListOverdue")

	var activities []*MaintenanceActivity
	if err := tx.WithContext(ctx).
		Where("status = ? AND scheduled_date IS NOT NULL AND scheduled_date < ?",
			ActivityStatusPending, now).
		Order("scheduled_date ASC").
		Find(&activities).Error; err != nil {
		return nil, log.Err("failed to list overdue activities", err)
	}

	return activities, nil
}

func (r *activityRepository) AddPhoto(
	ctx context.Context,
	tx *gorm.DB,
	photo *ActivityPhoto,
) error {
	log := r.log.Function("AddPhoto")

	if err := tx.WithContext(ctx).Create(photo).Error; err != nil {
		return log.Err("failed to add photo", err, "activityID", photo.ActivityID)
	}

	return nil
}
