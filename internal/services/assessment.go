package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	progressrepo "github.com/hearthside/carepath-backend/internal/data/repos/progress"
	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/engine"
	"github.com/hearthside/carepath-backend/internal/pkg/apperr"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

// OptionView is a question option as served to clients. Scores stay
// server-side; the client only ever sees and submits option IDs.
type OptionView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type QuestionView struct {
	ID      uuid.UUID    `json:"id"`
	Index   int          `json:"index"`
	Text    string       `json:"text"`
	Options []OptionView `json:"options"`
}

type AssessmentView struct {
	ID        uuid.UUID      `json:"id"`
	Day       *int           `json:"day,omitempty"`
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
}

type SubmissionResult struct {
	TotalScore int    `json:"total_score"`
	Level      string `json:"level"`
	Attempt    int    `json:"attempt"`
}

type AssessmentService interface {
	GetAssessment(ctx context.Context, id uuid.UUID) (*AssessmentView, error)
	Submit(ctx context.Context, id uuid.UUID, answers []engine.AnswerInput) (*SubmissionResult, error)
}

type assessmentService struct {
	log     *logger.Logger
	content ContentService
	results progressrepo.AssessmentResultRepo
}

func NewAssessmentService(
	log *logger.Logger,
	content ContentService,
	results progressrepo.AssessmentResultRepo,
) AssessmentService {
	return &assessmentService{
		log:     log.With("service", "AssessmentService"),
		content: content,
		results: results,
	}
}

func (s *assessmentService) GetAssessment(ctx context.Context, id uuid.UUID) (*AssessmentView, error) {
	if _, err := caregiverFromContext(ctx); err != nil {
		return nil, err
	}
	assessment, err := s.content.AssessmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load assessment: %w", err)
	}
	if assessment == nil {
		return nil, apperr.ErrNotFound
	}

	view := &AssessmentView{
		ID:    assessment.ID,
		Day:   assessment.Day,
		Title: assessment.Title,
	}
	for _, q := range assessment.Questions {
		opts, err := q.DecodedOptions()
		if err != nil {
			return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
		}
		qv := QuestionView{ID: q.ID, Index: q.Index, Text: q.Text}
		for _, o := range opts {
			qv.Options = append(qv.Options, OptionView{ID: o.ID, Label: o.Label})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view, nil
}

// Submit scores an answer set against the stored question definitions,
// resolves the burden level, and appends a new attempt. Prior attempts are
// kept; the new one becomes current.
func (s *assessmentService) Submit(ctx context.Context, id uuid.UUID, answers []engine.AnswerInput) (*SubmissionResult, error) {
	caregiverID, err := caregiverFromContext(ctx)
	if err != nil {
		return nil, err
	}
	assessment, err := s.content.AssessmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load assessment: %w", err)
	}
	if assessment == nil {
		return nil, apperr.ErrNotFound
	}
	// A day-bound test honors the same unlock gate as the day's video and
	// tasks. Standalone assessments carry no day and are always open.
	if assessment.Day != nil {
		schedules, err := s.content.Schedules(ctx)
		if err != nil {
			return nil, err
		}
		if !schedules[*assessment.Day].Unlocked(time.Now()) {
			return nil, &engine.StaleStateError{Reason: fmt.Sprintf("day %d is locked", *assessment.Day)}
		}
	}

	scored, err := engine.ScoreSubmission(assessment.Questions, answers)
	if err != nil {
		return nil, err
	}

	ranges, err := s.content.ScoreRanges(ctx, assessment.ID)
	if err != nil {
		return nil, err
	}
	level, err := engine.Evaluate(scored.Total, ranges)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(scored.Answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	day := 0
	if assessment.Day != nil {
		day = *assessment.Day
	}
	result := &types.AssessmentResult{
		CaregiverID:  caregiverID,
		AssessmentID: assessment.ID,
		Day:          day,
		Answers:      datatypes.JSON(encoded),
		TotalScore:   scored.Total,
		Level:        level,
		CompletedAt:  time.Now(),
	}
	if err := s.results.CreateAttempt(dbctx.Context{Ctx: ctx}, result); err != nil {
		return nil, fmt.Errorf("store attempt: %w", err)
	}

	s.log.Info("assessment submitted",
		"caregiver_id", caregiverID,
		"assessment_id", assessment.ID,
		"attempt", result.Attempt,
		"level", level,
	)
	return &SubmissionResult{
		TotalScore: scored.Total,
		Level:      level,
		Attempt:    result.Attempt,
	}, nil
}
