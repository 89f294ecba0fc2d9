package app

import (
	"gorm.io/gorm"

	"github.com/hearthside/carepath-backend/internal/pkg/logger"
	"github.com/hearthside/carepath-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Content    services.ContentService
	Program    services.ProgramService
	Assessment services.AssessmentService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	authService := services.NewAuthService(
		db, log,
		repos.Caregiver,
		repos.CaregiverToken,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	contentService := services.NewContentService(
		db, log,
		repos.ProgramDay,
		repos.DayVideo,
		repos.TaskDefinition,
		repos.Assessment,
		repos.ScoreRange,
		clients.ContentCache,
	)
	programService := services.NewProgramService(
		log,
		contentService,
		repos.TaskResponse,
		repos.VideoCompletion,
		repos.AssessmentResult,
	)
	assessmentService := services.NewAssessmentService(
		log,
		contentService,
		repos.AssessmentResult,
	)

	return Services{
		Auth:       authService,
		Content:    contentService,
		Program:    programService,
		Assessment: assessmentService,
	}
}
