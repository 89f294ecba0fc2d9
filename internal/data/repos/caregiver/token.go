package caregiver

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type CaregiverTokenRepo interface {
	Create(dbc dbctx.Context, token *types.CaregiverToken) (*types.CaregiverToken, error)
	GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.CaregiverToken, error)
	GetByAccessToken(dbc dbctx.Context, accessToken string) (*types.CaregiverToken, error)
	DeleteByCaregiverID(dbc dbctx.Context, caregiverID uuid.UUID) error
	DeleteExpired(dbc dbctx.Context, cutoff time.Time) error
}

type caregiverTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaregiverTokenRepo(db *gorm.DB, baseLog *logger.Logger) CaregiverTokenRepo {
	repoLog := baseLog.With("repo", "CaregiverTokenRepo")
	return &caregiverTokenRepo{db: db, log: repoLog}
}

func (r *caregiverTokenRepo) Create(dbc dbctx.Context, token *types.CaregiverToken) (*types.CaregiverToken, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if token == nil {
		return nil, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

func (r *caregiverTokenRepo) GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.CaregiverToken, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.CaregiverToken
	if err := t.WithContext(dbc.Ctx).
		Where("refresh_token = ?", refreshToken).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *caregiverTokenRepo) GetByAccessToken(dbc dbctx.Context, accessToken string) (*types.CaregiverToken, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.CaregiverToken
	if err := t.WithContext(dbc.Ctx).
		Where("access_token = ?", accessToken).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *caregiverTokenRepo) DeleteByCaregiverID(dbc dbctx.Context, caregiverID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if caregiverID == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("caregiver_id = ?", caregiverID).
		Delete(&types.CaregiverToken{}).Error
}

func (r *caregiverTokenRepo) DeleteExpired(dbc dbctx.Context, cutoff time.Time) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("expires_at < ?", cutoff).
		Delete(&types.CaregiverToken{}).Error
}
