package progress

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

type VideoCompletionRepo interface {
	UpsertProgress(dbc dbctx.Context, caregiverID uuid.UUID, day int, watchedRatio float64, completed bool, now time.Time) (*types.VideoCompletion, error)
	GetByCaregiverDay(dbc dbctx.Context, caregiverID uuid.UUID, day int) (*types.VideoCompletion, error)
	ListByCaregiver(dbc dbctx.Context, caregiverID uuid.UUID) ([]*types.VideoCompletion, error)
}

type videoCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoCompletionRepo(db *gorm.DB, baseLog *logger.Logger) VideoCompletionRepo {
	repoLog := baseLog.With("repo", "VideoCompletionRepo")
	return &videoCompletionRepo{db: db, log: repoLog}
}

// UpsertProgress records a watch-progress ping. The stored ratio and the
// completed flag are monotonic: a later ping with a lower ratio, or with
// completed=false after completion, never regresses the row.
func (r *videoCompletionRepo) UpsertProgress(dbc dbctx.Context, caregiverID uuid.UUID, day int, watchedRatio float64, completed bool, now time.Time) (*types.VideoCompletion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	row := &types.VideoCompletion{
		ID:           uuid.New(),
		CaregiverID:  caregiverID,
		Day:          day,
		WatchedRatio: watchedRatio,
		Completed:    completed,
	}
	if completed {
		row.CompletedAt = &now
	}
	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "caregiver_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"watched_ratio": gorm.Expr("GREATEST(video_completion.watched_ratio, EXCLUDED.watched_ratio)"),
				"completed":     gorm.Expr("video_completion.completed OR EXCLUDED.completed"),
				"completed_at":  gorm.Expr("COALESCE(video_completion.completed_at, EXCLUDED.completed_at)"),
				"updated_at":    now,
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByCaregiverDay(dbc, caregiverID, day)
}

func (r *videoCompletionRepo) GetByCaregiverDay(dbc dbctx.Context, caregiverID uuid.UUID, day int) (*types.VideoCompletion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.VideoCompletion
	if err := t.WithContext(dbc.Ctx).
		Where("caregiver_id = ? AND day = ?", caregiverID, day).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *videoCompletionRepo) ListByCaregiver(dbc dbctx.Context, caregiverID uuid.UUID) ([]*types.VideoCompletion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.VideoCompletion
	if caregiverID == uuid.Nil {
		return results, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("caregiver_id = ?", caregiverID).
		Order("day ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
