package repositories

import (
	"context"
	"time"
	"upkeep/internal/database"
	"upkeep/internal/logger"
	. "upkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QUESTIONS_CACHE_PREFIX = "activity_type_questions"
	QUESTIONS_CACHE_EXPIRY = 24 * time.Hour
)

// QuestionRepository is the checklist catalog. The workflow only reads it;
// mutation happens on the admin path and invalidates the cache.
type QuestionRepository interface {
	QuestionsFor(ctx context.Context, tx *gorm.DB, activityTypeID uuid.UUID) ([]*StandardQuestion, error)
	Create(ctx context.Context, tx *gorm.DB, question *StandardQuestion) error
	ClearQuestionsCache(ctx context.Context, activityTypeID uuid.UUID) error
}

type questionRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewQuestionRepository(cache database.CacheClient) QuestionRepository {
	return &questionRepository{
		cache: cache,
		log:   logger.New("questionRepository"),
	}
}

// QuestionsFor returns the checklist for an activity type ordered by the
// explicit order field with id as tie-break.
func (r *questionRepository) QuestionsFor(
	ctx context.Context,
	tx *gorm.DB,
	activityTypeID uuid.UUID,
) ([]*StandardQuestion, error) {
	log := r.log.Function("QuestionsFor")

	if r.cache != nil {
		var cached []*StandardQuestion
		found, err := database.NewCacheBuilder(r.cache, activityTypeID.String()).
			WithContext(ctx).
			WithHash(QUESTIONS_CACHE_PREFIX).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get questions from cache", "activityTypeID", activityTypeID, "error", err)
		}
		if found {
			return cached, nil
		}
	}

	var questions []*StandardQuestion
	if err := tx.WithContext(ctx).
		Where("activity_type_id = ?", activityTypeID).
		Order("question_order ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, log.Err("failed to get questions", err, "activityTypeID", activityTypeID)
	}

	if r.cache != nil {
		err := database.NewCacheBuilder(r.cache, activityTypeID.String()).
			WithContext(ctx).
			WithHash(QUESTIONS_CACHE_PREFIX).
			WithStruct(questions).
			WithTTL(QUESTIONS_CACHE_EXPIRY).
			Set()
		if err != nil {
			log.Warn("failed to cache questions", "activityTypeID", activityTypeID, "error", err)
		}
	}

	return questions, nil
}

func (r *questionRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	question *StandardQuestion,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(question).Error; err != nil {
		return log.Err("failed to create question", err, "activityTypeID", question.ActivityTypeID)
	}

	if err := r.ClearQuestionsCache(ctx, question.ActivityTypeID); err != nil {
		log.Warn("failed to clear questions cache", "activityTypeID", question.ActivityTypeID, "error", err)
	}

	return nil
}

func (r *questionRepository) ClearQuestionsCache(
	ctx context.Context,
	activityTypeID uuid.UUID,
) error {
	if r.cache == nil {
		return nil
	}

	return database.NewCacheBuilder(r.cache, activityTypeID.String()).
		WithContext(ctx).
		WithHash(QUESTIONS_CACHE_PREFIX).
		Delete()
}
