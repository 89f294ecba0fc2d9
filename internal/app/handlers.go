package app

import (
	"github.com/hearthside/carepath-backend/internal/handlers"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Program    *handlers.ProgramHandler
	Assessment *handlers.AssessmentHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(services.Auth),
		Program:    handlers.NewProgramHandler(services.Program),
		Assessment: handlers.NewAssessmentHandler(services.Assessment),
	}
}
