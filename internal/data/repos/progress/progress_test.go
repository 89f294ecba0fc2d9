package progress_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/hearthside/carepath-backend/internal/data/repos/progress"
	"github.com/hearthside/carepath-backend/internal/data/repos/testutil"
	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
)

func seedCaregiver(t *testing.T, dbc dbctx.Context) uuid.UUID {
	t.Helper()
	cg := &types.Caregiver{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.test",
		Password:  "x",
		FirstName: "Test",
		LastName:  "Caregiver",
		Language:  "en",
	}
	if err := dbc.Tx.Create(cg).Error; err != nil {
		t.Fatalf("seed caregiver: %v", err)
	}
	return cg.ID
}

func TestTaskResponseUpsertKeepsSingleRow(t *testing.T) {
	gdb := testutil.DB(t)
	dbc := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	repo := progress.NewTaskResponseRepo(gdb, log)

	caregiverID := seedCaregiver(t, dbc)
	taskID := uuid.New()

	first := &types.TaskResponse{
		CaregiverID: caregiverID,
		Day:         1,
		TaskID:      taskID,
		Kind:        types.KindRating,
		Response:    datatypes.JSON([]byte(`{"rating":3}`)),
		CompletedAt: time.Now().Add(-time.Minute),
	}
	if err := repo.Upsert(dbc, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &types.TaskResponse{
		CaregiverID: caregiverID,
		Day:         1,
		TaskID:      taskID,
		Kind:        types.KindRating,
		Response:    datatypes.JSON([]byte(`{"rating":5}`)),
		CompletedAt: time.Now(),
	}
	if err := repo.Upsert(dbc, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := repo.ListByCaregiverDay(dbc, caregiverID, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want a single row after re-answer, got %d", len(rows))
	}
	if string(rows[0].Response) != `{"rating": 5}` && string(rows[0].Response) != `{"rating":5}` {
		t.Fatalf("re-answer did not replace response: %s", rows[0].Response)
	}
}

func TestVideoCompletionMonotonic(t *testing.T) {
	gdb := testutil.DB(t)
	dbc := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	repo := progress.NewVideoCompletionRepo(gdb, log)

	caregiverID := seedCaregiver(t, dbc)
	now := time.Now()

	if _, err := repo.UpsertProgress(dbc, caregiverID, 2, 0.97, true, now); err != nil {
		t.Fatalf("completing upsert: %v", err)
	}
	row, err := repo.UpsertProgress(dbc, caregiverID, 2, 0.30, false, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("regressing upsert: %v", err)
	}
	if !row.Completed {
		t.Fatal("completed flag regressed")
	}
	if row.WatchedRatio < 0.97 {
		t.Fatalf("watched ratio regressed to %v", row.WatchedRatio)
	}
	if row.CompletedAt == nil {
		t.Fatal("completed_at cleared by later ping")
	}
}

func TestAssessmentResultAttemptNumbering(t *testing.T) {
	gdb := testutil.DB(t)
	dbc := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	repo := progress.NewAssessmentResultRepo(gdb, log)

	caregiverID := seedCaregiver(t, dbc)
	assessment := &types.Assessment{ID: uuid.New(), Language: "en", Title: "Burden check"}
	if err := dbc.Tx.Create(assessment).Error; err != nil {
		t.Fatalf("seed assessment: %v", err)
	}

	mk := func(score int, level string) *types.AssessmentResult {
		return &types.AssessmentResult{
			CaregiverID:  caregiverID,
			AssessmentID: assessment.ID,
			Day:          0,
			Answers:      datatypes.JSON([]byte(`[]`)),
			TotalScore:   score,
			Level:        level,
			CompletedAt:  time.Now(),
		}
	}

	first := mk(3, types.LevelMild)
	if err := repo.CreateAttempt(dbc, first); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if first.Attempt != 1 || !first.Current {
		t.Fatalf("first attempt numbering: attempt=%d current=%v", first.Attempt, first.Current)
	}

	second := mk(9, types.LevelSevere)
	if err := repo.CreateAttempt(dbc, second); err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if second.Attempt != 2 {
		t.Fatalf("second attempt numbered %d", second.Attempt)
	}

	current, err := repo.GetCurrent(dbc, caregiverID, assessment.ID)
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if current == nil || current.ID != second.ID {
		t.Fatal("current pointer did not move to the latest attempt")
	}

	attempts, err := repo.ListAttempts(dbc, caregiverID, assessment.ID)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("want both attempts preserved, got %d", len(attempts))
	}
	if attempts[0].Current {
		t.Fatal("prior attempt still marked current")
	}
}
