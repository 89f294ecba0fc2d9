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

type DayVideoRepo interface {
	Upsert(dbc dbctx.Context, video *types.DayVideo) error
	// GetForDay prefers a level-specific video, then the shared one
	// authored with level "".
	GetForDay(dbc dbctx.Context, day int, level, language string) (*types.DayVideo, error)
}

type dayVideoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDayVideoRepo(db *gorm.DB, baseLog *logger.Logger) DayVideoRepo {
	repoLog := baseLog.With("repo", "DayVideoRepo")
	return &dayVideoRepo{db: db, log: repoLog}
}

func (r *dayVideoRepo) Upsert(dbc dbctx.Context, video *types.DayVideo) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if video == nil {
		return nil
	}
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	video.UpdatedAt = time.Now().UTC()
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "day"}, {Name: "level"}, {Name: "language"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title",
				"url",
				"duration_seconds",
				"updated_at",
			}),
		}).
		Create(video).Error
}

func (r *dayVideoRepo) GetForDay(dbc dbctx.Context, day int, level, language string) (*types.DayVideo, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.DayVideo
	err := t.WithContext(dbc.Ctx).
		Where("day = ? AND language = ? AND level IN ?", day, language, []string{level, ""}).
		Order("level DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
