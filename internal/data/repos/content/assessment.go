package content

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type AssessmentRepo interface {
	Create(dbc dbctx.Context, assessment *types.Assessment) (*types.Assessment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error)
	GetByDay(dbc dbctx.Context, day int, language string) (*types.Assessment, error)
	ReplaceQuestions(dbc dbctx.Context, assessmentID uuid.UUID, questions []*types.AssessmentQuestion) error
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	repoLog := baseLog.With("repo", "AssessmentRepo")
	return &assessmentRepo{db: db, log: repoLog}
}

func (r *assessmentRepo) Create(dbc dbctx.Context, assessment *types.Assessment) (*types.Assessment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if assessment == nil {
		return nil, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(assessment).Error; err != nil {
		return nil, err
	}
	return assessment, nil
}

func (r *assessmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Assessment
	err := t.WithContext(dbc.Ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("index ASC")
		}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *assessmentRepo) GetByDay(dbc dbctx.Context, day int, language string) (*types.Assessment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Assessment
	err := t.WithContext(dbc.Ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("index ASC")
		}).
		Where("day = ? AND language = ?", day, language).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ReplaceQuestions swaps the authored question set wholesale. Used by the
// content seeder; per-question edits are out of scope.
func (r *assessmentRepo) ReplaceQuestions(dbc dbctx.Context, assessmentID uuid.UUID, questions []*types.AssessmentQuestion) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if assessmentID == uuid.Nil {
		return nil
	}
	if err := t.WithContext(dbc.Ctx).
		Unscoped().
		Where("assessment_id = ?", assessmentID).
		Delete(&types.AssessmentQuestion{}).Error; err != nil {
		return err
	}
	if len(questions) == 0 {
		return nil
	}
	for _, q := range questions {
		q.AssessmentID = assessmentID
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
	}
	return t.WithContext(dbc.Ctx).Create(&questions).Error
}
