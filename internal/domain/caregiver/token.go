package caregiver

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaregiverToken struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CaregiverID  uuid.UUID      `gorm:"index;not null;column:caregiver_id" json:"caregiver_id"`
	Caregiver    *Caregiver     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CaregiverID;references:ID" json:"caregiver,omitempty"`
	AccessToken  string         `gorm:"uniqueIndex;not null;column:access_token" json:"access_token"`
	RefreshToken string         `gorm:"uniqueIndex;not null;column:refresh_token" json:"refresh_token"`
	ExpiresAt    time.Time      `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CaregiverToken) TableName() string { return "caregiver_token" }
