package app

import (
	"github.com/gin-gonic/gin"

	"github.com/hearthside/carepath-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowOrigins:      server.SplitOrigins(cfg.AllowOrigins),
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		ProgramHandler:    handlers.Program,
		AssessmentHandler: handlers.Assessment,
	})
}
