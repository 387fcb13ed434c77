package activityController

import (
	"path/filepath"
	"testing"
	"time"
	"upkeep/config"
	"upkeep/internal/database"
	. "upkeep/internal/models"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type workflowFixture struct {
	db           database.DB
	controller   ActivityControllerInterface
	technician   *User
	other        *User
	supervisor   *User
	activityType *ActivityType
	location     *Location
	yesNo        *StandardQuestion
	temperature  *StandardQuestion
	bearing      *Part
	belt         *Part
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "workflow.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&User{},
		&Location{},
		&PartCategory{},
		&Part{},
		&ActivityType{},
		&StandardQuestion{},
		&MaintenanceActivity{},
		&ActivityAnswer{},
		&PartUsage{},
		&ActivityPhoto{},
	))

	db := database.DB{SQL: gdb}

	repos := repositories.Repository{
		User:         repositories.NewUserRepository(nil),
		Location:     repositories.NewLocationRepository(),
		Part:         repositories.NewPartRepository(),
		ActivityType: repositories.NewActivityTypeRepository(),
		Question:     repositories.NewQuestionRepository(nil),
		Activity:     repositories.NewActivityRepository(),
	}

	appServices := services.Service{
		Transaction: services.NewTransactionService(db),
	}

	f := &workflowFixture{
		db:         db,
		controller: New(repos, appServices, nil, config.Config{}, db),
	}

	ctx := t.Context()

	f.technician = &User{FirstName: "João", LastName: "Silva", EmployeeID: "TEC001", IsActive: true}
	f.other = &User{FirstName: "Maria", LastName: "Santos", EmployeeID: "TEC002", IsActive: true}
	f.supervisor = &User{FirstName: "Carlos", LastName: "Souza", EmployeeID: "SUP001", IsSupervisor: true, IsActive: true}
	for _, user := range []*User{f.technician, f.other, f.supervisor} {
		require.NoError(t, gdb.WithContext(ctx).Create(user).Error)
	}

	f.activityType = &ActivityType{Name: "Manutenção Preventiva", IsActive: true}
	require.NoError(t, gdb.WithContext(ctx).Create(f.activityType).Error)

	f.yesNo = &StandardQuestion{
		ActivityTypeID: f.activityType.ID,
		Question:       "O equipamento estava funcionando normalmente?",
		Type:           QuestionTypeYesNo,
		Order:          1,
	}
	f.temperature = &StandardQuestion{
		ActivityTypeID: f.activityType.ID,
		Question:       "Qual a temperatura do motor em °C?",
		Type:           QuestionTypeNumber,
		Order:          2,
	}
	require.NoError(t, gdb.WithContext(ctx).Create(f.yesNo).Error)
	require.NoError(t, gdb.WithContext(ctx).Create(f.temperature).Error)

	f.location = &Location{
		Name:     "Compressor Atlas 01",
		Code:     "COMP001",
		Type:     LocationTypeEquipment,
		IsActive: true,
	}
	require.NoError(t, gdb.WithContext(ctx).Create(f.location).Error)

	category := &PartCategory{Name: "Rolamentos"}
	require.NoError(t, gdb.WithContext(ctx).Create(category).Error)

	cost := decimal.RequireFromString("45.50")
	f.bearing = &Part{
		Code:         "ROL001",
		Name:         "Rolamento 6205",
		CategoryID:   category.ID,
		MinimumStock: decimal.NewFromInt(10),
		CurrentStock: decimal.NewFromInt(25),
		CostPrice:    &cost,
	}
	f.belt = &Part{
		Code:         "COR001",
		Name:         "Correia A-42",
		CategoryID:   category.ID,
		MinimumStock: decimal.NewFromInt(5),
		CurrentStock: decimal.NewFromInt(3),
	}
	require.NoError(t, gdb.WithContext(ctx).Create(f.bearing).Error)
	require.NoError(t, gdb.WithContext(ctx).Create(f.belt).Error)

	return f
}

// inProgressActivity creates an activity for the fixture technician and
// starts it 30 minutes in the past.
func (f *workflowFixture) inProgressActivity(t *testing.T) *MaintenanceActivity {
	t.Helper()

	activity, err := f.controller.CreateActivity(t.Context(), f.technician.ToActor(), &CreateActivityRequest{
		ActivityTypeID: f.activityType.ID,
		LocationID:     f.location.ID,
		Title:          "Manutenção Preventiva - Compressor Atlas 01",
	})
	require.NoError(t, err)

	startedAt := time.Now().Add(-30 * time.Minute)
	require.NoError(t, f.db.SQL.WithContext(t.Context()).
		Model(activity).
		Updates(map[string]any{
			"status":     ActivityStatusInProgress,
			"started_at": startedAt,
		}).Error)

	return activity
}

func (f *workflowFixture) stockOf(t *testing.T, part *Part) decimal.Decimal {
	t.Helper()

	var reloaded Part
	require.NoError(t, f.db.SQL.WithContext(t.Context()).
		First(&reloaded, "id = ?", part.ID).Error)
	return reloaded.CurrentStock
}

func TestCompleteActivityWritesAnswersUsagesAndStock(t *testing.T) {
	f := newWorkflowFixture(t)
	activity := f.inProgressActivity(t)

	working := true
	notWorking := false
	firstReading := decimal.RequireFromString("72.5")

	completed, err := f.controller.CompleteActivity(
		t.Context(), f.technician.ToActor(), activity.ID,
		&CompleteActivityRequest{
			Answers: []AnswerInput{
				{QuestionID: f.yesNo.ID, Boolean: &working},
				{QuestionID: f.temperature.ID, Number: &firstReading},
				// Duplicate answer: the later value replaces the earlier one.
				{QuestionID: f.yesNo.ID, Boolean: &notWorking},
			},
			PartsUsed: []PartUsageInput{
				{PartID: f.bearing.ID, Quantity: decimal.NewFromInt(2)},
				// Same part again: quantities accumulate into one usage row.
				{PartID: f.bearing.ID, Quantity: decimal.NewFromInt(1)},
			},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, ActivityStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	require.NotNil(t, completed.ActualDuration)
	assert.InDelta(t, (30 * time.Minute).Seconds(), completed.ActualDuration.Seconds(), 60)

	require.Len(t, completed.Answers, 2)
	answersByQuestion := make(map[string]*ActivityAnswer, 2)
	for i := range completed.Answers {
		answersByQuestion[completed.Answers[i].QuestionID.String()] = &completed.Answers[i]
	}
	yesNoAnswer := answersByQuestion[f.yesNo.ID.String()]
	require.NotNil(t, yesNoAnswer)
	require.NotNil(t, yesNoAnswer.Boolean)
	assert.False(t, *yesNoAnswer.Boolean)

	temperatureAnswer := answersByQuestion[f.temperature.ID.String()]
	require.NotNil(t, temperatureAnswer)
	require.NotNil(t, temperatureAnswer.Number)
	assert.True(t, temperatureAnswer.Number.Equal(firstReading))

	require.Len(t, completed.PartsUsed, 1)
	usage := completed.PartsUsed[0]
	assert.True(t, usage.Quantity.Equal(decimal.NewFromInt(3)),
		"expected 3, got %s", usage.Quantity)
	require.NotNil(t, usage.UnitCost)
	assert.True(t, usage.UnitCost.Equal(decimal.RequireFromString("45.50")))

	stock := f.stockOf(t, f.bearing)
	assert.True(t, stock.Equal(decimal.NewFromInt(22)), "expected 22, got %s", stock)
}

func TestCompleteActivityUnknownQuestionRollsBack(t *testing.T) {
	f := newWorkflowFixture(t)
	activity := f.inProgressActivity(t)

	working := true
	foreignType := &ActivityType{Name: "Inspeção", IsActive: true}
	require.NoError(t, f.db.SQL.WithContext(t.Context()).Create(foreignType).Error)
	foreignQuestion := &StandardQuestion{
		ActivityTypeID: foreignType.ID,
		Question:       "Houve vazamento?",
		Type:           QuestionTypeYesNo,
	}
	require.NoError(t, f.db.SQL.WithContext(t.Context()).Create(foreignQuestion).Error)

	_, err := f.controller.CompleteActivity(
		t.Context(), f.technician.ToActor(), activity.ID,
		&CompleteActivityRequest{
			Answers: []AnswerInput{
				{QuestionID: foreignQuestion.ID, Boolean: &working},
			},
			PartsUsed: []PartUsageInput{
				{PartID: f.bearing.ID, Quantity: decimal.NewFromInt(2)},
			},
		},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	var reloaded MaintenanceActivity
	require.NoError(t, f.db.SQL.WithContext(t.Context()).
		First(&reloaded, "id = ?", activity.ID).Error)
	assert.Equal(t, ActivityStatusInProgress, reloaded.Status)

	stock := f.stockOf(t, f.bearing)
	assert.True(t, stock.Equal(decimal.NewFromInt(25)), "expected 25, got %s", stock)
}

func TestCompleteActivityUnknownPartRollsBack(t *testing.T) {
	f := newWorkflowFixture(t)
	activity := f.inProgressActivity(t)

	_, err := f.controller.CompleteActivity(
		t.Context(), f.technician.ToActor(), activity.ID,
		&CompleteActivityRequest{
			PartsUsed: []PartUsageInput{
				{PartID: f.bearing.ID, Quantity: decimal.NewFromInt(2)},
				{PartID: uuid.Must(uuid.NewV7()), Quantity: decimal.NewFromInt(1)},
			},
		},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPart)

	var reloaded MaintenanceActivity
	require.NoError(t, f.db.SQL.WithContext(t.Context()).
		First(&reloaded, "id = ?", activity.ID).Error)
	assert.Equal(t, ActivityStatusInProgress, reloaded.Status)

	stock := f.stockOf(t, f.bearing)
	assert.True(t, stock.Equal(decimal.NewFromInt(25)))
}

func TestCompleteActivityInsufficientStockRollsBack(t *testing.T) {
	f := newWorkflowFixture(t)
	activity := f.inProgressActivity(t)

	_, err := f.controller.CompleteActivity(
		t.Context(), f.technician.ToActor(), activity.ID,
		&CompleteActivityRequest{
			PartsUsed: []PartUsageInput{
				// Only 3 belts in stock.
				{PartID: f.belt.ID, Quantity: decimal.NewFromInt(4)},
			},
		},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var reloaded MaintenanceActivity
	require.NoError(t, f.db.SQL.WithContext(t.Context()).
		First(&reloaded, "id = ?", activity.ID).Error)
	assert.Equal(t, ActivityStatusInProgress, reloaded.Status)

	stock := f.stockOf(t, f.belt)
	assert.True(t, stock.Equal(decimal.NewFromInt(3)))
}

func TestCompleteActivityRequiresInProgress(t *testing.T) {
	f := newWorkflowFixture(t)

	activity, err := f.controller.CreateActivity(t.Context(), f.technician.ToActor(), &CreateActivityRequest{
		ActivityTypeID: f.activityType.ID,
		LocationID:     f.location.ID,
		Title:          "Manutenção pendente",
	})
	require.NoError(t, err)

	_, err = f.controller.CompleteActivity(
		t.Context(), f.technician.ToActor(), activity.ID, &CompleteActivityRequest{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteActivityGuardsActor(t *testing.T) {
	f := newWorkflowFixture(t)
	activity := f.inProgressActivity(t)

	_, err := f.controller.CompleteActivity(
		t.Context(), f.other.ToActor(), activity.ID, &CompleteActivityRequest{})
	assert.ErrorIs(t, err, ErrForbidden)

	// Supervisors may complete anyone's work.
	completed, err := f.controller.CompleteActivity(
		t.Context(), f.supervisor.ToActor(), activity.ID, &CompleteActivityRequest{})
	require.NoError(t, err)
	assert.Equal(t, ActivityStatusCompleted, completed.Status)
}

func TestCreateActivityAssignmentRequiresSupervisor(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.controller.CreateActivity(t.Context(), f.technician.ToActor(), &CreateActivityRequest{
		TechnicianID:   &f.other.ID,
		ActivityTypeID: f.activityType.ID,
		LocationID:     f.location.ID,
		Title:          "Atribuição indevida",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	activity, err := f.controller.CreateActivity(t.Context(), f.supervisor.ToActor(), &CreateActivityRequest{
		TechnicianID:   &f.other.ID,
		ActivityTypeID: f.activityType.ID,
		LocationID:     f.location.ID,
		Title:          "Atribuição pelo supervisor",
	})
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, activity.TechnicianID)
}
