package app

import (
	"gorm.io/gorm"

	caregiverrepo "github.com/hearthside/carepath-backend/internal/data/repos/caregiver"
	contentrepo "github.com/hearthside/carepath-backend/internal/data/repos/content"
	progressrepo "github.com/hearthside/carepath-backend/internal/data/repos/progress"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type Repos struct {
	Caregiver      caregiverrepo.CaregiverRepo
	CaregiverToken caregiverrepo.CaregiverTokenRepo

	ProgramDay     contentrepo.ProgramDayRepo
	DayVideo       contentrepo.DayVideoRepo
	TaskDefinition contentrepo.TaskDefinitionRepo
	Assessment     contentrepo.AssessmentRepo
	ScoreRange     contentrepo.ScoreRangeRepo

	TaskResponse     progressrepo.TaskResponseRepo
	VideoCompletion  progressrepo.VideoCompletionRepo
	AssessmentResult progressrepo.AssessmentResultRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Caregiver:      caregiverrepo.NewCaregiverRepo(db, log),
		CaregiverToken: caregiverrepo.NewCaregiverTokenRepo(db, log),

		ProgramDay:     contentrepo.NewProgramDayRepo(db, log),
		DayVideo:       contentrepo.NewDayVideoRepo(db, log),
		TaskDefinition: contentrepo.NewTaskDefinitionRepo(db, log),
		Assessment:     contentrepo.NewAssessmentRepo(db, log),
		ScoreRange:     contentrepo.NewScoreRangeRepo(db, log),

		TaskResponse:     progressrepo.NewTaskResponseRepo(db, log),
		VideoCompletion:  progressrepo.NewVideoCompletionRepo(db, log),
		AssessmentResult: progressrepo.NewAssessmentResultRepo(db, log),
	}
}
