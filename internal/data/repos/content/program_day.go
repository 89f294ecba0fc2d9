package content

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type ProgramDayRepo interface {
	Upsert(dbc dbctx.Context, day *types.ProgramDay) error
	GetByDay(dbc dbctx.Context, day int) (*types.ProgramDay, error)
	ListAll(dbc dbctx.Context) ([]*types.ProgramDay, error)
}

type programDayRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgramDayRepo(db *gorm.DB, baseLog *logger.Logger) ProgramDayRepo {
	repoLog := baseLog.With("repo", "ProgramDayRepo")
	return &programDayRepo{db: db, log: repoLog}
}

func (r *programDayRepo) Upsert(dbc dbctx.Context, day *types.ProgramDay) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if day == nil {
		return nil
	}
	if day.ID == uuid.Nil {
		day.ID = uuid.New()
	}
	day.UpdatedAt = time.Now().UTC()
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title",
				"admin_unlocked",
				"unlock_at",
				"updated_at",
			}),
		}).
		Create(day).Error
}

func (r *programDayRepo) GetByDay(dbc dbctx.Context, day int) (*types.ProgramDay, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.ProgramDay
	if err := t.WithContext(dbc.Ctx).
		Where("day = ?", day).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *programDayRepo) ListAll(dbc dbctx.Context) ([]*types.ProgramDay, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.ProgramDay
	if err := t.WithContext(dbc.Ctx).
		Order("day ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
