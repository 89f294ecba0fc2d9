package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	contentrepo "github.com/hearthside/carepath-backend/internal/data/repos/content"
	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/domain/program"
	"github.com/hearthside/carepath-backend/internal/engine"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

// seedNamespace derives stable IDs for seeded rows, so re-running the
// seeder updates content in place and caregiver responses keep pointing at
// the same tasks.
var seedNamespace = uuid.MustParse("9f2c6d1e-4b0a-4f3d-8e57-1a2b3c4d5e6f")

type Program struct {
	Days []Day `yaml:"days"`
}

type Day struct {
	Day           int         `yaml:"day"`
	Title         string      `yaml:"title"`
	AdminUnlocked bool        `yaml:"admin_unlocked"`
	UnlockAt      *time.Time  `yaml:"unlock_at"`
	Videos        []Video     `yaml:"videos"`
	Tasks         []Task      `yaml:"tasks"`
	Assessment    *Assessment `yaml:"assessment"`
}

type Video struct {
	Level           string `yaml:"level"`
	Language        string `yaml:"language"`
	Title           string `yaml:"title"`
	URL             string `yaml:"url"`
	DurationSeconds int    `yaml:"duration_seconds"`
}

type Task struct {
	Level       string                 `yaml:"level"`
	Language    string                 `yaml:"language"`
	Index       int                    `yaml:"index"`
	Kind        string                 `yaml:"kind"`
	Title       string                 `yaml:"title"`
	Description string                 `yaml:"description"`
	Payload     map[string]interface{} `yaml:"payload"`
}

type Assessment struct {
	Language    string       `yaml:"language"`
	Title       string       `yaml:"title"`
	Questions   []Question   `yaml:"questions"`
	ScoreRanges []ScoreRange `yaml:"score_ranges"`
}

type Question struct {
	Text    string   `yaml:"text"`
	Options []Option `yaml:"options"`
}

type Option struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Score int    `yaml:"score"`
}

type ScoreRange struct {
	Min   int    `yaml:"min"`
	Max   int    `yaml:"max"`
	Level string `yaml:"level"`
}

// Load parses and validates a program definition file. Validation happens
// entirely up front so a bad file never half-seeds the database.
func Load(path string) (*Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program definition: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Program, error) {
	var p Program
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse program definition: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Program) Validate() error {
	seenDays := make(map[int]bool, len(p.Days))
	for _, d := range p.Days {
		if d.Day < program.FirstDay || d.Day > program.LastDay {
			return fmt.Errorf("day %d out of range %d..%d", d.Day, program.FirstDay, program.LastDay)
		}
		if seenDays[d.Day] {
			return fmt.Errorf("day %d defined twice", d.Day)
		}
		seenDays[d.Day] = true

		for _, t := range d.Tasks {
			if _, ok := engine.SpecFor(types.TaskKind(t.Kind)); !ok {
				return fmt.Errorf("day %d: unknown task kind %q", d.Day, t.Kind)
			}
			if t.Language == "" {
				return fmt.Errorf("day %d: task at index %d missing language", d.Day, t.Index)
			}
		}
		for _, v := range d.Videos {
			if v.URL == "" {
				return fmt.Errorf("day %d: video missing url", d.Day)
			}
			if v.Language == "" {
				return fmt.Errorf("day %d: video missing language", d.Day)
			}
		}
		if d.Assessment != nil {
			if err := validateAssessment(d.Day, d.Assessment); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateAssessment(day int, a *Assessment) error {
	if a.Language == "" {
		return fmt.Errorf("day %d: assessment missing language", day)
	}
	questions, err := buildQuestions(day, a)
	if err != nil {
		return err
	}
	if err := engine.ValidateQuestions(questions); err != nil {
		return fmt.Errorf("day %d: %w", day, err)
	}
	maxTotal, err := engine.MaxAchievableTotal(questions)
	if err != nil {
		return fmt.Errorf("day %d: %w", day, err)
	}
	ranges := make([]types.ScoreRange, 0, len(a.ScoreRanges))
	for _, r := range a.ScoreRanges {
		ranges = append(ranges, types.ScoreRange{Min: r.Min, Max: r.Max, Level: r.Level})
	}
	if err := engine.ValidateRanges(ranges, maxTotal); err != nil {
		return fmt.Errorf("day %d: %w", day, err)
	}
	return nil
}

func stableID(parts ...interface{}) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(fmt.Sprint(parts...)))
}

func buildQuestions(day int, a *Assessment) ([]types.AssessmentQuestion, error) {
	assessmentID := stableID("assessment:", day, ":", a.Language)
	questions := make([]types.AssessmentQuestion, 0, len(a.Questions))
	for i, q := range a.Questions {
		opts := make([]types.QuestionOption, 0, len(q.Options))
		for _, o := range q.Options {
			opts = append(opts, types.QuestionOption{ID: o.ID, Label: o.Label, Score: o.Score})
		}
		encoded, err := json.Marshal(opts)
		if err != nil {
			return nil, fmt.Errorf("day %d question %d: encode options: %w", day, i, err)
		}
		questions = append(questions, types.AssessmentQuestion{
			ID:           stableID("question:", day, ":", a.Language, ":", i),
			AssessmentID: assessmentID,
			Index:        i,
			Text:         q.Text,
			Options:      datatypes.JSON(encoded),
		})
	}
	return questions, nil
}

// Seeder upserts a validated program definition into the configuration
// tables inside one transaction.
type Seeder struct {
	db          *gorm.DB
	log         *logger.Logger
	programDays contentrepo.ProgramDayRepo
	videos      contentrepo.DayVideoRepo
	tasks       contentrepo.TaskDefinitionRepo
	assessments contentrepo.AssessmentRepo
	scoreRanges contentrepo.ScoreRangeRepo
}

func NewSeeder(
	db *gorm.DB,
	log *logger.Logger,
	programDays contentrepo.ProgramDayRepo,
	videos contentrepo.DayVideoRepo,
	tasks contentrepo.TaskDefinitionRepo,
	assessments contentrepo.AssessmentRepo,
	scoreRanges contentrepo.ScoreRangeRepo,
) *Seeder {
	return &Seeder{
		db:          db,
		log:         log.With("component", "Seeder"),
		programDays: programDays,
		videos:      videos,
		tasks:       tasks,
		assessments: assessments,
		scoreRanges: scoreRanges,
	}
}

func (s *Seeder) Apply(ctx context.Context, p *Program) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		for _, d := range p.Days {
			if err := s.applyDay(dbc, d); err != nil {
				return fmt.Errorf("seed day %d: %w", d.Day, err)
			}
		}
		s.log.Info("program definition applied", "days", len(p.Days))
		return nil
	})
}

func (s *Seeder) applyDay(dbc dbctx.Context, d Day) error {
	if err := s.programDays.Upsert(dbc, &types.ProgramDay{
		ID:            stableID("program_day:", d.Day),
		Day:           d.Day,
		Title:         d.Title,
		AdminUnlocked: d.AdminUnlocked,
		UnlockAt:      d.UnlockAt,
	}); err != nil {
		return fmt.Errorf("upsert program day: %w", err)
	}

	for _, v := range d.Videos {
		if err := s.videos.Upsert(dbc, &types.DayVideo{
			ID:              stableID("video:", d.Day, ":", v.Level, ":", v.Language),
			Day:             d.Day,
			Level:           v.Level,
			Language:        v.Language,
			Title:           v.Title,
			URL:             v.URL,
			DurationSeconds: v.DurationSeconds,
		}); err != nil {
			return fmt.Errorf("upsert video: %w", err)
		}
	}

	taskRows := make([]*types.TaskDefinition, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		payload, err := json.Marshal(t.Payload)
		if err != nil {
			return fmt.Errorf("encode task payload: %w", err)
		}
		taskRows = append(taskRows, &types.TaskDefinition{
			ID:          stableID("task:", d.Day, ":", t.Level, ":", t.Language, ":", t.Index),
			Day:         d.Day,
			Level:       t.Level,
			Language:    t.Language,
			Index:       t.Index,
			Kind:        types.TaskKind(t.Kind),
			Title:       t.Title,
			Description: t.Description,
			Payload:     datatypes.JSON(payload),
		})
	}
	if len(taskRows) > 0 {
		if err := s.tasks.Upsert(dbc, taskRows); err != nil {
			return fmt.Errorf("upsert tasks: %w", err)
		}
	}

	if d.Assessment != nil {
		if err := s.applyAssessment(dbc, d.Day, d.Assessment); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) applyAssessment(dbc dbctx.Context, day int, a *Assessment) error {
	assessmentID := stableID("assessment:", day, ":", a.Language)
	dayVal := day
	existing, err := s.assessments.GetByID(dbc, assessmentID)
	if err != nil {
		return fmt.Errorf("load assessment: %w", err)
	}
	if existing == nil {
		if _, err := s.assessments.Create(dbc, &types.Assessment{
			ID:       assessmentID,
			Day:      &dayVal,
			Language: a.Language,
			Title:    a.Title,
		}); err != nil {
			return fmt.Errorf("create assessment: %w", err)
		}
	}

	questions, err := buildQuestions(day, a)
	if err != nil {
		return err
	}
	questionPtrs := make([]*types.AssessmentQuestion, 0, len(questions))
	for i := range questions {
		questionPtrs = append(questionPtrs, &questions[i])
	}
	if err := s.assessments.ReplaceQuestions(dbc, assessmentID, questionPtrs); err != nil {
		return fmt.Errorf("replace questions: %w", err)
	}

	ranges := make([]*types.ScoreRange, 0, len(a.ScoreRanges))
	for i, r := range a.ScoreRanges {
		ranges = append(ranges, &types.ScoreRange{
			ID:    stableID("range:", day, ":", a.Language, ":", i),
			Min:   r.Min,
			Max:   r.Max,
			Level: r.Level,
		})
	}
	if err := s.scoreRanges.ReplaceForAssessment(dbc, assessmentID, ranges); err != nil {
		return fmt.Errorf("replace score ranges: %w", err)
	}
	return nil
}
