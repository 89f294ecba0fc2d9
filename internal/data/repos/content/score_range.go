package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type ScoreRangeRepo interface {
	ReplaceForAssessment(dbc dbctx.Context, assessmentID uuid.UUID, ranges []*types.ScoreRange) error
	ListByAssessmentID(dbc dbctx.Context, assessmentID uuid.UUID) ([]*types.ScoreRange, error)
}

type scoreRangeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreRangeRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRangeRepo {
	repoLog := baseLog.With("repo", "ScoreRangeRepo")
	return &scoreRangeRepo{db: db, log: repoLog}
}

func (r *scoreRangeRepo) ReplaceForAssessment(dbc dbctx.Context, assessmentID uuid.UUID, ranges []*types.ScoreRange) error {
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
		Delete(&types.ScoreRange{}).Error; err != nil {
		return err
	}
	if len(ranges) == 0 {
		return nil
	}
	for _, sr := range ranges {
		sr.AssessmentID = assessmentID
		if sr.ID == uuid.Nil {
			sr.ID = uuid.New()
		}
	}
	return t.WithContext(dbc.Ctx).Create(&ranges).Error
}

func (r *scoreRangeRepo) ListByAssessmentID(dbc dbctx.Context, assessmentID uuid.UUID) ([]*types.ScoreRange, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.ScoreRange
	if assessmentID == uuid.Nil {
		return results, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("assessment_id = ?", assessmentID).
		Order("min ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
