package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type TaskDefinitionRepo interface {
	Upsert(dbc dbctx.Context, tasks []*types.TaskDefinition) error
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.TaskDefinition, error)
	// ListByScope returns the authored tasks for one exact
	// (day, level, language), ordered by authored index.
	ListByScope(dbc dbctx.Context, day int, level, language string) ([]*types.TaskDefinition, error)
}

type taskDefinitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) TaskDefinitionRepo {
	repoLog := baseLog.With("repo", "TaskDefinitionRepo")
	return &taskDefinitionRepo{db: db, log: repoLog}
}

func (r *taskDefinitionRepo) Upsert(dbc dbctx.Context, tasks []*types.TaskDefinition) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(tasks) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, task := range tasks {
		if task.ID == uuid.Nil {
			task.ID = uuid.New()
		}
		task.UpdatedAt = now
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"day",
				"level",
				"language",
				"index",
				"kind",
				"title",
				"description",
				"payload",
				"updated_at",
			}),
		}).
		Create(&tasks).Error
}

func (r *taskDefinitionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.TaskDefinition, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.TaskDefinition
	if len(ids) == 0 {
		return results, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *taskDefinitionRepo) ListByScope(dbc dbctx.Context, day int, level, language string) ([]*types.TaskDefinition, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.TaskDefinition
	if err := t.WithContext(dbc.Ctx).
		Where("day = ? AND level = ? AND language = ?", day, level, language).
		Order("index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
