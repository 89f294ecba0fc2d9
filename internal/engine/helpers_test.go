package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/domain/program"
)

func makeTask(tb testing.TB, day, index int, kind types.TaskKind) types.TaskDefinition {
	tb.Helper()
	return types.TaskDefinition{
		ID:       uuid.New(),
		Day:      day,
		Level:    program.LevelModerate,
		Language: "en",
		Index:    index,
		Kind:     kind,
		Title:    "task",
	}
}

func makeQuestion(tb testing.TB, assessmentID uuid.UUID, index int, scores ...int) types.AssessmentQuestion {
	tb.Helper()
	opts := make([]types.QuestionOption, 0, len(scores))
	for i, s := range scores {
		opts = append(opts, types.QuestionOption{
			ID:    string(rune('a' + i)),
			Label: "option",
			Score: s,
		})
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		tb.Fatalf("marshal options: %v", err)
	}
	return types.AssessmentQuestion{
		ID:           uuid.New(),
		AssessmentID: assessmentID,
		Index:        index,
		Text:         "question",
		Options:      datatypes.JSON(raw),
	}
}

func makeRange(min, max int, level string) types.ScoreRange {
	return types.ScoreRange{ID: uuid.New(), Min: min, Max: max, Level: level}
}

func respondedTo(tb testing.TB, caregiverID uuid.UUID, day int, tasks ...types.TaskDefinition) []types.TaskResponse {
	tb.Helper()
	responses := make([]types.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, types.TaskResponse{
			ID:          uuid.New(),
			CaregiverID: caregiverID,
			Day:         day,
			TaskID:      t.ID,
			Kind:        t.Kind,
			CompletedAt: time.Now().UTC(),
		})
	}
	return responses
}

func unlockedSchedule() DaySchedule {
	return DaySchedule{AdminUnlocked: true}
}
