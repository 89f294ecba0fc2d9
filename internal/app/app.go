package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hearthside/carepath-backend/internal/data/db"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
	"github.com/hearthside/carepath-backend/internal/seed"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clientset, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clientset)

	if cfg.SeedContentPath != "" {
		if err := seedContent(theDB, log, cfg, reposet, serviceset); err != nil {
			log.Sync()
			return nil, fmt.Errorf("seed program content: %w", err)
		}
	}

	handlerset := wireHandlers(log, serviceset)
	middlewareset := wireMiddleware(log, serviceset)
	router := wireRouter(cfg, handlerset, middlewareset)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Clients:  clientset,
	}, nil
}

func seedContent(theDB *gorm.DB, log *logger.Logger, cfg Config, repos Repos, services Services) error {
	program, err := seed.Load(cfg.SeedContentPath)
	if err != nil {
		return err
	}
	seeder := seed.NewSeeder(
		theDB, log,
		repos.ProgramDay,
		repos.DayVideo,
		repos.TaskDefinition,
		repos.Assessment,
		repos.ScoreRange,
	)
	ctx := context.Background()
	if err := seeder.Apply(ctx, program); err != nil {
		return err
	}
	// Seeded content supersedes whatever the cache holds.
	return services.Content.InvalidateCache(ctx)
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.ContentCache != nil {
		if err := a.Clients.ContentCache.Close(); err != nil {
			a.Log.Warn("closing content cache", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
