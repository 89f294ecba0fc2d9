package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/hearthside/carepath-backend/internal/clients/redis"
	contentrepo "github.com/hearthside/carepath-backend/internal/data/repos/content"
	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/engine"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

// ContentService reads admin-authored program configuration. It is the
// engine's ContentProvider, optionally fronted by a Redis read-through
// cache; the cache is a nil-safe optional, absent in tests and in
// deployments without Redis.
type ContentService interface {
	engine.ContentProvider
	Schedules(ctx context.Context) (map[int]engine.DaySchedule, error)
	ScoreRanges(ctx context.Context, assessmentID uuid.UUID) ([]types.ScoreRange, error)
	AssessmentByID(ctx context.Context, id uuid.UUID) (*types.Assessment, error)
	InvalidateCache(ctx context.Context) error
}

type contentService struct {
	db          *gorm.DB
	log         *logger.Logger
	programDays contentrepo.ProgramDayRepo
	videos      contentrepo.DayVideoRepo
	tasks       contentrepo.TaskDefinitionRepo
	assessments contentrepo.AssessmentRepo
	scoreRanges contentrepo.ScoreRangeRepo
	cache       redisclient.ContentCache
}

func NewContentService(
	db *gorm.DB,
	log *logger.Logger,
	programDays contentrepo.ProgramDayRepo,
	videos contentrepo.DayVideoRepo,
	tasks contentrepo.TaskDefinitionRepo,
	assessments contentrepo.AssessmentRepo,
	scoreRanges contentrepo.ScoreRangeRepo,
	cache redisclient.ContentCache,
) ContentService {
	return &contentService{
		db:          db,
		log:         log.With("service", "ContentService"),
		programDays: programDays,
		videos:      videos,
		tasks:       tasks,
		assessments: assessments,
		scoreRanges: scoreRanges,
		cache:       cache,
	}
}

type cachedDayContent struct {
	Tasks []types.TaskDefinition `json:"tasks"`
	Test  *types.Assessment      `json:"test,omitempty"`
	Video *types.DayVideo        `json:"video,omitempty"`
}

func dayContentKey(day int, level, language string) string {
	return fmt.Sprintf("content:day:%d:%s:%s", day, level, language)
}

func (s *contentService) GetDayContent(ctx context.Context, day int, level, language string) (*engine.DayContent, error) {
	if s.cache != nil {
		var cached cachedDayContent
		hit, err := s.cache.Get(ctx, dayContentKey(day, level, language), &cached)
		if err != nil {
			// Cache trouble degrades to a database read, never an error.
			s.log.Warn("content cache read failed", "day", day, "error", err)
		} else if hit {
			return &engine.DayContent{Tasks: cached.Tasks, Test: cached.Test, Video: cached.Video}, nil
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	taskRows, err := s.tasks.ListByScope(dbc, day, level, language)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	test, err := s.assessments.GetByDay(dbc, day, language)
	if err != nil {
		return nil, fmt.Errorf("load assessment: %w", err)
	}
	video, err := s.videos.GetForDay(dbc, day, level, language)
	if err != nil {
		return nil, fmt.Errorf("load video: %w", err)
	}

	content := &engine.DayContent{Test: test, Video: video}
	for _, t := range taskRows {
		content.Tasks = append(content.Tasks, *t)
	}

	if s.cache != nil {
		entry := cachedDayContent{Tasks: content.Tasks, Test: content.Test, Video: content.Video}
		if err := s.cache.Set(ctx, dayContentKey(day, level, language), entry); err != nil {
			s.log.Warn("content cache write failed", "day", day, "error", err)
		}
	}
	return content, nil
}

func (s *contentService) Schedules(ctx context.Context) (map[int]engine.DaySchedule, error) {
	rows, err := s.programDays.ListAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list program days: %w", err)
	}
	schedules := make(map[int]engine.DaySchedule, len(rows))
	for _, row := range rows {
		schedules[row.Day] = engine.DaySchedule{
			AdminUnlocked: row.AdminUnlocked,
			UnlockAt:      row.UnlockAt,
		}
	}
	return schedules, nil
}

func (s *contentService) ScoreRanges(ctx context.Context, assessmentID uuid.UUID) ([]types.ScoreRange, error) {
	rows, err := s.scoreRanges.ListByAssessmentID(dbctx.Context{Ctx: ctx}, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list score ranges: %w", err)
	}
	ranges := make([]types.ScoreRange, 0, len(rows))
	for _, row := range rows {
		ranges = append(ranges, *row)
	}
	return ranges, nil
}

func (s *contentService) AssessmentByID(ctx context.Context, id uuid.UUID) (*types.Assessment, error) {
	return s.assessments.GetByID(dbctx.Context{Ctx: ctx}, id)
}

func (s *contentService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, "content:day:*")
}
