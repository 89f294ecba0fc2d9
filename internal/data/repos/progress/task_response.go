package progress

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type TaskResponseRepo interface {
	Upsert(dbc dbctx.Context, response *types.TaskResponse) error
	ListByCaregiverDay(dbc dbctx.Context, caregiverID uuid.UUID, day int) ([]*types.TaskResponse, error)
	ListByCaregiver(dbc dbctx.Context, caregiverID uuid.UUID) ([]*types.TaskResponse, error)
}

type taskResponseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskResponseRepo(db *gorm.DB, baseLog *logger.Logger) TaskResponseRepo {
	repoLog := baseLog.With("repo", "TaskResponseRepo")
	return &taskResponseRepo{db: db, log: repoLog}
}

// Upsert writes a caregiver's answer to a task. Re-answering updates the
// existing row in place, so the (caregiver, day, task) key stays unique and
// progress counting never double-counts.
func (r *taskResponseRepo) Upsert(dbc dbctx.Context, response *types.TaskResponse) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if response == nil {
		return nil
	}
	if response.ID == uuid.Nil {
		response.ID = uuid.New()
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "caregiver_id"}, {Name: "day"}, {Name: "task_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"response", "kind", "completed_at", "updated_at",
			}),
		}).
		Create(response).Error
}

func (r *taskResponseRepo) ListByCaregiverDay(dbc dbctx.Context, caregiverID uuid.UUID, day int) ([]*types.TaskResponse, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.TaskResponse
	if caregiverID == uuid.Nil {
		return results, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("caregiver_id = ? AND day = ?", caregiverID, day).
		Order("completed_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *taskResponseRepo) ListByCaregiver(dbc dbctx.Context, caregiverID uuid.UUID) ([]*types.TaskResponse, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.TaskResponse
	if caregiverID == uuid.Nil {
		return results, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("caregiver_id = ?", caregiverID).
		Order("day ASC, completed_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
