package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/domain/program"
)

func TestEvaluate(t *testing.T) {
	ranges := []types.ScoreRange{
		makeRange(5, 8, program.LevelSevere),
		makeRange(0, 4, program.LevelMild),
	}

	level, err := Evaluate(5, ranges)
	if err != nil {
		t.Fatalf("Evaluate(5): %v", err)
	}
	if level != program.LevelSevere {
		t.Fatalf("Evaluate(5) = %q, want %q", level, program.LevelSevere)
	}

	level, err = Evaluate(0, ranges)
	if err != nil || level != program.LevelMild {
		t.Fatalf("Evaluate(0) = %q, %v, want %q", level, err, program.LevelMild)
	}
	level, err = Evaluate(4, ranges)
	if err != nil || level != program.LevelMild {
		t.Fatalf("Evaluate(4) = %q, %v, want %q", level, err, program.LevelMild)
	}
}

func TestEvaluateNoMatchIsConfigurationError(t *testing.T) {
	ranges := []types.ScoreRange{makeRange(0, 4, program.LevelMild)}

	_, err := Evaluate(9, ranges)
	if err == nil {
		t.Fatal("Evaluate(9) with uncovered total should fail, not default")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Evaluate(9) error = %T, want *ConfigurationError", err)
	}
}

func TestEvaluateNegativeTotal(t *testing.T) {
	ranges := []types.ScoreRange{makeRange(0, 4, program.LevelMild)}
	if _, err := Evaluate(-1, ranges); err == nil {
		t.Fatal("Evaluate(-1) should fail")
	}
}

func TestValidateRangesCoverage(t *testing.T) {
	// Every integer total in [0, maxTotal] must be covered exactly once.
	good := []types.ScoreRange{
		makeRange(0, 4, program.LevelMild),
		makeRange(5, 8, program.LevelSevere),
	}
	if err := ValidateRanges(good, 8); err != nil {
		t.Fatalf("ValidateRanges(good): %v", err)
	}
	for total := 0; total <= 8; total++ {
		if _, err := Evaluate(total, good); err != nil {
			t.Fatalf("Evaluate(%d) over validated ranges: %v", total, err)
		}
	}

	gap := []types.ScoreRange{
		makeRange(0, 3, program.LevelMild),
		makeRange(5, 8, program.LevelSevere),
	}
	if err := ValidateRanges(gap, 8); err == nil {
		t.Fatal("ValidateRanges should reject a gap at 4")
	}

	overlap := []types.ScoreRange{
		makeRange(0, 5, program.LevelMild),
		makeRange(5, 8, program.LevelSevere),
	}
	if err := ValidateRanges(overlap, 8); err == nil {
		t.Fatal("ValidateRanges should reject overlapping ranges")
	}

	short := []types.ScoreRange{makeRange(0, 6, program.LevelMild)}
	if err := ValidateRanges(short, 8); err == nil {
		t.Fatal("ValidateRanges should reject ranges ending below maxTotal")
	}

	late := []types.ScoreRange{makeRange(1, 8, program.LevelMild)}
	if err := ValidateRanges(late, 8); err == nil {
		t.Fatal("ValidateRanges should reject ranges starting above 0")
	}
}

func TestMaxAchievableTotal(t *testing.T) {
	assessmentID := uuid.New()
	questions := []types.AssessmentQuestion{
		makeQuestion(t, assessmentID, 0, 0, 2, 4),
		makeQuestion(t, assessmentID, 1, 0, 1, 3),
	}
	total, err := MaxAchievableTotal(questions)
	if err != nil {
		t.Fatalf("MaxAchievableTotal: %v", err)
	}
	if total != 7 {
		t.Fatalf("MaxAchievableTotal = %d, want 7", total)
	}
}

func TestValidateQuestions(t *testing.T) {
	assessmentID := uuid.New()
	good := []types.AssessmentQuestion{
		makeQuestion(t, assessmentID, 0, 0, 1, 2),
	}
	if err := ValidateQuestions(good); err != nil {
		t.Fatalf("ValidateQuestions(good): %v", err)
	}

	single := []types.AssessmentQuestion{makeQuestion(t, assessmentID, 0, 1)}
	if err := ValidateQuestions(single); err == nil {
		t.Fatal("ValidateQuestions should reject a single-option question")
	}

	duped := []types.AssessmentQuestion{makeQuestion(t, assessmentID, 0, 2, 2)}
	if err := ValidateQuestions(duped); err == nil {
		t.Fatal("ValidateQuestions should reject duplicate scores within a question")
	}
}
