package db

import (
	"fmt"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.AllModels()...)
}

// EnsureProgressIndexes creates the partial index backing the "one current
// attempt" invariant; AutoMigrate cannot express it.
func EnsureProgressIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_assessment_result_current
		ON assessment_result (caregiver_id, assessment_id)
		WHERE current AND deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_assessment_result_current: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureProgressIndexes(s.db); err != nil {
		s.log.Error("Progress index migration failed", "error", err)
		return err
	}
	return nil
}
