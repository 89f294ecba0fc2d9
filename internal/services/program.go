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
	"github.com/hearthside/carepath-backend/internal/requestdata"
)

// A video counts as watched once the reported ratio reaches this, or the
// player reports an ended event at any ratio.
const videoCompletedRatio = 0.95

type TaskView struct {
	ID          uuid.UUID       `json:"id"`
	Kind        types.TaskKind  `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Index       int             `json:"index"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Completed   bool            `json:"completed"`
}

type VideoView struct {
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
	WatchedRatio    float64 `json:"watched_ratio"`
	Completed       bool    `json:"completed"`
}

type TestView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Level     string    `json:"level,omitempty"`
	Attempt   int       `json:"attempt,omitempty"`
}

type DayView struct {
	Day       int                `json:"day"`
	Level     string             `json:"level"`
	Video     *VideoView         `json:"video,omitempty"`
	Tasks     []TaskView         `json:"tasks"`
	Reminders []TaskView         `json:"reminders,omitempty"`
	Test      *TestView          `json:"test,omitempty"`
	Progress  engine.DayProgress `json:"progress"`
	Action    engine.Action      `json:"action"`
}

type DaySummaryView struct {
	Day      int                `json:"day"`
	Unlocked bool               `json:"unlocked"`
	Gate     engine.Gate        `json:"gate"`
	Progress engine.DayProgress `json:"progress"`
}

type ProgramView struct {
	Level           string           `json:"level"`
	OverallProgress int              `json:"overall_progress"`
	CurrentDay      int              `json:"current_day"`
	Days            []DaySummaryView `json:"days"`
}

type ProgramService interface {
	GetProgram(ctx context.Context) (*ProgramView, error)
	GetDay(ctx context.Context, day int) (*DayView, error)
	CompleteVideo(ctx context.Context, day int, watchedRatio float64, ended bool) (*DayView, error)
	SubmitTaskResponse(ctx context.Context, day int, taskID uuid.UUID, response json.RawMessage) (*DayView, error)
}

type programService struct {
	log       *logger.Logger
	content   ContentService
	resolver  *engine.Resolver
	responses progressrepo.TaskResponseRepo
	videos    progressrepo.VideoCompletionRepo
	results   progressrepo.AssessmentResultRepo
}

func NewProgramService(
	log *logger.Logger,
	content ContentService,
	responses progressrepo.TaskResponseRepo,
	videos progressrepo.VideoCompletionRepo,
	results progressrepo.AssessmentResultRepo,
) ProgramService {
	return &programService{
		log:       log.With("service", "ProgramService"),
		content:   content,
		resolver:  engine.NewResolver(content),
		responses: responses,
		videos:    videos,
		results:   results,
	}
}

func caregiverFromContext(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.CaregiverID == uuid.Nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return rd.CaregiverID, nil
}

// caregiverLevel is the burden level from the most recent current
// assessment result. Before any assessment the moderate content track is
// served; resolution falls back to it anyway.
func (s *programService) caregiverLevel(ctx context.Context, caregiverID uuid.UUID) (string, error) {
	results, err := s.results.ListCurrentByCaregiver(dbctx.Context{Ctx: ctx}, caregiverID)
	if err != nil {
		return "", fmt.Errorf("list assessment results: %w", err)
	}
	level := types.LevelModerate
	var latest time.Time
	for _, r := range results {
		if r.CompletedAt.After(latest) {
			latest = r.CompletedAt
			level = r.Level
		}
	}
	return level, nil
}

func (s *programService) caregiverLanguage(ctx context.Context) string {
	// Language preference rides on the caregiver row; handlers resolve it
	// into request data up front so services stay free of user lookups.
	if rd := requestdata.GetRequestData(ctx); rd != nil && rd.Language != "" {
		return rd.Language
	}
	return "en"
}

func (s *programService) dayState(ctx context.Context, caregiverID uuid.UUID, day int, schedule engine.DaySchedule, test *types.Assessment) (*engine.DayState, error) {
	dbc := dbctx.Context{Ctx: ctx}
	responseRows, err := s.responses.ListByCaregiverDay(dbc, caregiverID, day)
	if err != nil {
		return nil, fmt.Errorf("list task responses: %w", err)
	}
	responses := make([]types.TaskResponse, 0, len(responseRows))
	for _, r := range responseRows {
		responses = append(responses, *r)
	}

	video, err := s.videos.GetByCaregiverDay(dbc, caregiverID, day)
	if err != nil {
		return nil, fmt.Errorf("load video completion: %w", err)
	}

	var testResult *types.AssessmentResult
	if test != nil {
		testResult, err = s.results.GetCurrent(dbc, caregiverID, test.ID)
		if err != nil {
			return nil, fmt.Errorf("load assessment result: %w", err)
		}
	}

	return &engine.DayState{
		Day:            day,
		Schedule:       schedule,
		VideoCompleted: video != nil && video.Completed,
		Responses:      responses,
		TestResult:     testResult,
	}, nil
}

func (s *programService) GetProgram(ctx context.Context) (*ProgramView, error) {
	caregiverID, err := caregiverFromContext(ctx)
	if err != nil {
		return nil, err
	}
	level, err := s.caregiverLevel(ctx, caregiverID)
	if err != nil {
		return nil, err
	}
	language := s.caregiverLanguage(ctx)
	schedules, err := s.content.Schedules(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	view := &ProgramView{Level: level}
	standings := make([]engine.DayStanding, 0, types.DayCount)
	for day := types.FirstDay; day <= types.LastDay; day++ {
		resolved, err := s.resolver.Resolve(ctx, day, level, language)
		if err != nil {
			return nil, fmt.Errorf("resolve day %d: %w", day, err)
		}
		state, err := s.dayState(ctx, caregiverID, day, schedules[day], resolved.Test)
		if err != nil {
			return nil, err
		}
		progress := engine.Reduce(state, resolved)
		action := engine.NextActionable(resolved, state, now)
		standings = append(standings, engine.DayStanding{
			Day:      day,
			Unlocked: state.Schedule.Unlocked(now),
			Progress: progress,
		})
		view.Days = append(view.Days, DaySummaryView{
			Day:      day,
			Unlocked: state.Schedule.Unlocked(now),
			Gate:     action.Gate,
			Progress: progress,
		})
	}

	summary := engine.Aggregate(standings)
	view.OverallProgress = summary.OverallProgress
	view.CurrentDay = summary.CurrentDay
	return view, nil
}

func (s *programService) GetDay(ctx context.Context, day int) (*DayView, error) {
	caregiverID, err := caregiverFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if day < types.FirstDay || day > types.LastDay {
		return nil, fmt.Errorf("%w: day %d out of range", apperr.ErrInvalidArgument, day)
	}
	return s.buildDayView(ctx, caregiverID, day)
}

func (s *programService) buildDayView(ctx context.Context, caregiverID uuid.UUID, day int) (*DayView, error) {
	level, err := s.caregiverLevel(ctx, caregiverID)
	if err != nil {
		return nil, err
	}
	language := s.caregiverLanguage(ctx)
	schedules, err := s.content.Schedules(ctx)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolver.Resolve(ctx, day, level, language)
	if err != nil {
		return nil, fmt.Errorf("resolve day %d: %w", day, err)
	}
	state, err := s.dayState(ctx, caregiverID, day, schedules[day], resolved.Test)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	view := &DayView{
		Day:      day,
		Level:    resolved.Level,
		Progress: engine.Reduce(state, resolved),
		Action:   engine.NextActionable(resolved, state, now),
		Tasks:    []TaskView{},
	}

	answered := state.RespondedTaskIDs()
	for _, t := range resolved.Tasks {
		_, done := answered[t.ID]
		view.Tasks = append(view.Tasks, taskView(t, done))
	}
	for _, t := range resolved.Reminders {
		view.Reminders = append(view.Reminders, taskView(t, false))
	}

	if resolved.Video != nil {
		vc, err := s.videos.GetByCaregiverDay(dbctx.Context{Ctx: ctx}, caregiverID, day)
		if err != nil {
			return nil, fmt.Errorf("load video completion: %w", err)
		}
		vv := &VideoView{
			Title:           resolved.Video.Title,
			URL:             resolved.Video.URL,
			DurationSeconds: resolved.Video.DurationSeconds,
		}
		if vc != nil {
			vv.WatchedRatio = vc.WatchedRatio
			vv.Completed = vc.Completed
		}
		view.Video = vv
	}

	if resolved.Test != nil {
		tv := &TestView{ID: resolved.Test.ID, Title: resolved.Test.Title}
		if state.TestResult != nil {
			tv.Completed = true
			tv.Level = state.TestResult.Level
			tv.Attempt = state.TestResult.Attempt
		}
		view.Test = tv
	}
	return view, nil
}

func taskView(t types.TaskDefinition, completed bool) TaskView {
	return TaskView{
		ID:          t.ID,
		Kind:        t.Kind,
		Title:       t.Title,
		Description: t.Description,
		Index:       t.Index,
		Payload:     json.RawMessage(t.Payload),
		Completed:   completed,
	}
}

func (s *programService) CompleteVideo(ctx context.Context, day int, watchedRatio float64, ended bool) (*DayView, error) {
	caregiverID, err := caregiverFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if day < types.FirstDay || day > types.LastDay {
		return nil, fmt.Errorf("%w: day %d out of range", apperr.ErrInvalidArgument, day)
	}
	if watchedRatio < 0 || watchedRatio > 1 {
		return nil, fmt.Errorf("%w: watched ratio %v out of range", apperr.ErrInvalidArgument, watchedRatio)
	}

	level, err := s.caregiverLevel(ctx, caregiverID)
	if err != nil {
		return nil, err
	}
	language := s.caregiverLanguage(ctx)
	schedules, err := s.content.Schedules(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if !schedules[day].Unlocked(now) {
		return nil, &engine.StaleStateError{Reason: fmt.Sprintf("day %d is locked", day)}
	}

	resolved, err := s.resolver.Resolve(ctx, day, level, language)
	if err != nil {
		return nil, fmt.Errorf("resolve day %d: %w", day, err)
	}
	if resolved.Video == nil {
		return nil, fmt.Errorf("%w: day %d has no video", apperr.ErrNotFound, day)
	}

	completed := ended || watchedRatio >= videoCompletedRatio
	if _, err := s.videos.UpsertProgress(dbctx.Context{Ctx: ctx}, caregiverID, day, watchedRatio, completed, now); err != nil {
		return nil, fmt.Errorf("record video progress: %w", err)
	}
	if completed {
		s.log.Info("video completed", "caregiver_id", caregiverID, "day", day)
	}
	return s.buildDayView(ctx, caregiverID, day)
}

func (s *programService) SubmitTaskResponse(ctx context.Context, day int, taskID uuid.UUID, response json.RawMessage) (*DayView, error) {
	caregiverID, err := caregiverFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if day < types.FirstDay || day > types.LastDay {
		return nil, fmt.Errorf("%w: day %d out of range", apperr.ErrInvalidArgument, day)
	}

	level, err := s.caregiverLevel(ctx, caregiverID)
	if err != nil {
		return nil, err
	}
	language := s.caregiverLanguage(ctx)
	schedules, err := s.content.Schedules(ctx)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolver.Resolve(ctx, day, level, language)
	if err != nil {
		return nil, fmt.Errorf("resolve day %d: %w", day, err)
	}
	state, err := s.dayState(ctx, caregiverID, day, schedules[day], resolved.Test)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := engine.CheckTaskSubmittable(resolved, state, taskID, now); err != nil {
		return nil, err
	}

	var task *types.TaskDefinition
	for i := range resolved.Tasks {
		if resolved.Tasks[i].ID == taskID {
			task = &resolved.Tasks[i]
			break
		}
	}
	if task == nil {
		return nil, &engine.ValidationError{Reason: fmt.Sprintf("task %s is not part of day %d", taskID, day)}
	}
	if err := engine.ValidateResponse(task.Kind, response); err != nil {
		return nil, err
	}

	if err := s.responses.Upsert(dbctx.Context{Ctx: ctx}, &types.TaskResponse{
		CaregiverID: caregiverID,
		Day:         day,
		TaskID:      taskID,
		Kind:        task.Kind,
		Response:    datatypes.JSON(response),
		CompletedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("store task response: %w", err)
	}
	return s.buildDayView(ctx, caregiverID, day)
}
