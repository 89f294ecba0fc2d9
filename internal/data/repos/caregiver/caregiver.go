package caregiver

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type CaregiverRepo interface {
	Create(dbc dbctx.Context, caregiver *types.Caregiver) (*types.Caregiver, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Caregiver, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.Caregiver, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	Update(dbc dbctx.Context, caregiver *types.Caregiver) error
}

type caregiverRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaregiverRepo(db *gorm.DB, baseLog *logger.Logger) CaregiverRepo {
	repoLog := baseLog.With("repo", "CaregiverRepo")
	return &caregiverRepo{db: db, log: repoLog}
}

func (r *caregiverRepo) Create(dbc dbctx.Context, caregiver *types.Caregiver) (*types.Caregiver, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if caregiver == nil {
		return nil, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(caregiver).Error; err != nil {
		return nil, err
	}
	return caregiver, nil
}

func (r *caregiverRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Caregiver, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Caregiver
	if err := t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *caregiverRepo) GetByEmail(dbc dbctx.Context, email string) (*types.Caregiver, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Caregiver
	if err := t.WithContext(dbc.Ctx).
		Where("email = ?", email).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *caregiverRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Caregiver{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *caregiverRepo) Update(dbc dbctx.Context, caregiver *types.Caregiver) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if caregiver == nil || caregiver.ID == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Save(caregiver).Error
}
