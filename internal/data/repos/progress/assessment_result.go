package progress

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type AssessmentResultRepo interface {
	CreateAttempt(dbc dbctx.Context, result *types.AssessmentResult) error
	GetCurrent(dbc dbctx.Context, caregiverID, assessmentID uuid.UUID) (*types.AssessmentResult, error)
	ListCurrentByCaregiver(dbc dbctx.Context, caregiverID uuid.UUID) ([]*types.AssessmentResult, error)
	ListAttempts(dbc dbctx.Context, caregiverID, assessmentID uuid.UUID) ([]*types.AssessmentResult, error)
}

type assessmentResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentResultRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentResultRepo {
	repoLog := baseLog.With("repo", "AssessmentResultRepo")
	return &assessmentResultRepo{db: db, log: repoLog}
}

// CreateAttempt appends a new attempt and moves the Current pointer to it.
// Attempt numbering and the pointer swap run in one transaction; the partial
// unique index on (caregiver_id, assessment_id) WHERE current backs the
// single-current invariant against concurrent submissions.
func (r *assessmentResultRepo) CreateAttempt(dbc dbctx.Context, result *types.AssessmentResult) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if result == nil {
		return nil
	}
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	run := func(tx *gorm.DB) error {
		var maxAttempt int
		if err := tx.Model(&types.AssessmentResult{}).
			Where("caregiver_id = ? AND assessment_id = ?", result.CaregiverID, result.AssessmentID).
			Select("COALESCE(MAX(attempt), 0)").
			Scan(&maxAttempt).Error; err != nil {
			return err
		}
		result.Attempt = maxAttempt + 1
		result.Current = true
		if err := tx.Model(&types.AssessmentResult{}).
			Where("caregiver_id = ? AND assessment_id = ? AND current", result.CaregiverID, result.AssessmentID).
			Update("current", false).Error; err != nil {
			return err
		}
		return tx.Create(result).Error
	}
	if dbc.Tx != nil {
		return run(t.WithContext(dbc.Ctx))
	}
	return t.WithContext(dbc.Ctx).Transaction(run)
}

func (r *assessmentResultRepo) GetCurrent(dbc dbctx.Context, caregiverID, assessmentID uuid.UUID) (*types.AssessmentResult, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.AssessmentResult
	if err := t.WithContext(dbc.Ctx).
		Where("caregiver_id = ? AND assessment_id = ? AND current", caregiverID, assessmentID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListCurrentByCaregiver returns the current attempt per assessment across
// the whole program, one row per assessment the caregiver has completed.
func (r *assessmentResultRepo) ListCurrentByCaregiver(dbc dbctx.Context, caregiverID uuid.UUID) ([]*types.AssessmentResult, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.AssessmentResult
	if caregiverID == uuid.Nil {
		return results, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("caregiver_id = ? AND current", caregiverID).
		Order("day ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assessmentResultRepo) ListAttempts(dbc dbctx.Context, caregiverID, assessmentID uuid.UUID) ([]*types.AssessmentResult, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.AssessmentResult
	if err := t.WithContext(dbc.Ctx).
		Where("caregiver_id = ? AND assessment_id = ?", caregiverID, assessmentID).
		Order("attempt ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
