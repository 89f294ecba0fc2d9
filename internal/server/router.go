package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hearthside/carepath-backend/internal/handlers"
	"github.com/hearthside/carepath-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins      []string
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	ProgramHandler    *handlers.ProgramHandler
	AssessmentHandler *handlers.AssessmentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Auth
		protected.POST("/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/logout", cfg.AuthHandler.Logout)
		protected.GET("/me", cfg.AuthHandler.Me)

		// Program
		protected.GET("/program", cfg.ProgramHandler.GetProgram)
		protected.GET("/program/days/:day", cfg.ProgramHandler.GetDay)
		protected.POST("/program/days/:day/video", cfg.ProgramHandler.CompleteVideo)
		protected.POST("/program/days/:day/tasks/:taskID", cfg.ProgramHandler.SubmitTask)

		// Assessments
		protected.GET("/assessments/:id", cfg.AssessmentHandler.Get)
		protected.POST("/assessments/:id/submit", cfg.AssessmentHandler.Submit)
	}

	return router
}

// SplitOrigins parses a comma-separated origin list from configuration.
func SplitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
