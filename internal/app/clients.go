package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/hearthside/carepath-backend/internal/clients/redis"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

type Clients struct {
	ContentCache redis.ContentCache
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis is optional; without it content reads go straight to Postgres.
	var cache redis.ContentCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := redis.NewContentCache(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis content cache: %w", err)
		}
		cache = c
	}

	return Clients{ContentCache: cache}, nil
}
