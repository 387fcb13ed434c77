package repositories

import (
	"sync"
	"testing"
	"time"
	. "upkeep/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type activityFixture struct {
	technician   *User
	activityType *ActivityType
	location     *Location
}

func newActivityFixture(t *testing.T, db *gorm.DB) activityFixture {
	t.Helper()

	technician := &User{
		FirstName:  "João",
		LastName:   "Silva",
		EmployeeID: "TEC001",
		Shift:      ShiftMorning,
		IsActive:   true,
	}
	require.NoError(t, db.WithContext(t.Context()).Create(technician).Error)

	activityType := &ActivityType{
		Name:     "Manutenção Preventiva",
		IsActive: true,
	}
	require.NoError(t, db.WithContext(t.Context()).Create(activityType).Error)

	location := &Location{
		Name:     "Compressor Atlas 01",
		Code:     "COMP001",
		Type:     LocationTypeEquipment,
		IsActive: true,
	}
	require.NoError(t, db.WithContext(t.Context()).Create(location).Error)

	return activityFixture{technician, activityType, location}
}

func (f activityFixture) newActivity(
	t *testing.T,
	db *gorm.DB,
	repo ActivityRepository,
	status ActivityStatus,
) *MaintenanceActivity {
	t.Helper()

	activity := &MaintenanceActivity{
		TechnicianID:   f.technician.ID,
		ActivityTypeID: f.activityType.ID,
		LocationID:     f.location.ID,
		Title:          "Manutenção Preventiva - Compressor Atlas 01",
		Status:         ActivityStatusPending,
	}
	require.NoError(t, repo.Create(t.Context(), db, activity))

	if status == ActivityStatusInProgress {
		startedAt := time.Now().Add(-30 * time.Minute)
		require.NoError(t, repo.MarkStarted(t.Context(), db, activity.ID, startedAt, nil))
		activity.Status = ActivityStatusInProgress
		activity.StartedAt = &startedAt
	}

	return activity
}

func TestActivityMarkStarted(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository()
	fixture := newActivityFixture(t, db)

	activity := fixture.newActivity(t, db, repo, ActivityStatusPending)

	startedAt := time.Now()
	observations := "compressor desligado para inspeção"
	require.NoError(t, repo.MarkStarted(t.Context(), db, activity.ID, startedAt, &observations))

	reloaded, err := repo.GetByID(t.Context(), db, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, ActivityStatusInProgress, reloaded.Status)
	require.NotNil(t, reloaded.StartedAt)
	assert.WithinDuration(t, startedAt, *reloaded.StartedAt, time.Second)
	assert.Equal(t, observations, reloaded.Observations)
}

func TestActivityMarkStartedRejectsNonPending(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository()
	fixture := newActivityFixture(t, db)

	activity := fixture.newActivity(t, db, repo, ActivityStatusInProgress)

	err := repo.MarkStarted(t.Context(), db, activity.ID, time.Now(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, ActivityStatusInProgress, transitionErr.Current)
	assert.Equal(t, "start", transitionErr.Requested)
}

func TestActivityMarkCompletedRequiresInProgress(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository()
	fixture := newActivityFixture(t, db)

	pending := fixture.newActivity(t, db, repo, ActivityStatusPending)

	err := repo.MarkCompleted(t.Context(), db, pending.ID, time.Now(), time.Hour, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	reloaded, err := repo.GetByID(t.Context(), db, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, ActivityStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.CompletedAt)
}

func TestActivityMarkCompletedRecordsTiming(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository()
	fixture := newActivityFixture(t, db)

	activity := fixture.newActivity(t, db, repo, ActivityStatusInProgress)

	completedAt := time.Now()
	require.NoError(t, repo.MarkCompleted(
		t.Context(), db, activity.ID, completedAt, 45*time.Minute, nil,
	))

	reloaded, err := repo.GetByID(t.Context(), db, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, ActivityStatusCompleted, reloaded.Status)
	require.NotNil(t, reloaded.CompletedAt)
	assert.WithinDuration(t, completedAt, *reloaded.CompletedAt, time.Second)
	require.NotNil(t, reloaded.ActualDuration)
	assert.Equal(t, 45*time.Minute, *reloaded.ActualDuration)
}

func TestActivityMarkCancelled(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository()
	fixture := newActivityFixture(t, db)

	pending := fixture.newActivity(t, db, repo, ActivityStatusPending)
	require.NoError(t, repo.MarkCancelled(t.Context(), db, pending.ID))

	inProgress := fixture.newActivity(t, db, repo, ActivityStatusInProgress)
	require.NoError(t, repo.MarkCancelled(t.Context(), db, inProgress.ID))

	// Terminal states stay terminal.
	err := repo.MarkCancelled(t.Context(), db, pending.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = repo.MarkStarted(t.Context(), db, inProgress.ID, time.Now(), nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestActivityTransitionUnknownActivity(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository()

	err := repo.MarkStarted(t.Context(), db, uuid.Must(uuid.NewV7()), time.Now(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivityConcurrentCompleteExactlyOneWins(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository()
	fixture := newActivityFixture(t, db)

	activity := fixture.newActivity(t, db, repo, ActivityStatusInProgress)

	const workers = 4
	results := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = repo.MarkCompleted(
				t.Context(), db, activity.ID, time.Now(), time.Hour, nil)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)
}

func TestActivityUpsertAnswersReplacesPayload(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository()
	fixture := newActivityFixture(t, db)

	question := &StandardQuestion{
		ActivityTypeID: fixture.activityType.ID,
		Question:       "Qual a temperatura do motor em °C?",
		Type:           QuestionTypeNumber,
	}
	require.NoError(t, db.WithContext(t.Context()).Create(question).Error)

	activity := fixture.newActivity(t, db, repo, ActivityStatusInProgress)

	first := decimal.RequireFromString("72.5")
	require.NoError(t, repo.UpsertAnswers(t.Context(), db, []*ActivityAnswer{{
		ActivityID: activity.ID,
		QuestionID: question.ID,
		Number:     &first,
	}}))

	second := decimal.RequireFromString("68")
	require.NoError(t, repo.UpsertAnswers(t.Context(), db, []*ActivityAnswer{{
		ActivityID: activity.ID,
		QuestionID: question.ID,
		Number:     &second,
	}}))

	var answers []ActivityAnswer
	require.NoError(t, db.WithContext(t.Context()).
		Where("activity_id = ?", activity.ID).
		Find(&answers).Error)
	require.Len(t, answers, 1)
	require.NotNil(t, answers[0].Number)
	assert.True(t, answers[0].Number.Equal(second),
		"expected 68, got %s", answers[0].Number)
}

func TestActivityCreateUsagesRejectsDuplicatePart(t *testing.T) {
	db := newTestDB(t)
	activityRepo := NewActivityRepository()
	partRepo := NewPartRepository()
	fixture := newActivityFixture(t, db)

	part := createPart(t, db, partRepo, "ROL001", "10", "25")
	activity := fixture.newActivity(t, db, activityRepo, ActivityStatusInProgress)

	require.NoError(t, activityRepo.CreateUsages(t.Context(), db, []*PartUsage{{
		ActivityID: activity.ID,
		PartID:     part.ID,
		Quantity:   decimal.NewFromInt(2),
	}}))

	// The (activity, part) pair is unique in the schema.
	err := activityRepo.CreateUsages(t.Context(), db, []*PartUsage{{
		ActivityID: activity.ID,
		PartID:     part.ID,
		Quantity:   decimal.NewFromInt(1),
	}})
	assert.Error(t, err)
}

func TestActivityListOverdue(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository()
	fixture := newActivityFixture(t, db)

	now := time.Now()

	past := now.Add(-48 * time.Hour)
	overdue := fixture.newActivity(t, db, repo, ActivityStatusPending)
	require.NoError(t, db.WithContext(t.Context()).
		Model(overdue).Update("scheduled_date", past).Error)

	future := now.Add(48 * time.Hour)
	upcoming := fixture.newActivity(t, db, repo, ActivityStatusPending)
	require.NoError(t, db.WithContext(t.Context()).
		Model(upcoming).Update("scheduled_date", future).Error)

	// In-progress work is late but not "overdue pending".
	started := fixture.newActivity(t, db, repo, ActivityStatusInProgress)
	require.NoError(t, db.WithContext(t.Context()).
		Model(started).Update("scheduled_date", past).Error)

	fixture.newActivity(t, db, repo, ActivityStatusPending) // no scheduled date

	activities, err := repo.ListOverdue(t.Context(), db, now)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, overdue.ID, activities[0].ID)
}
