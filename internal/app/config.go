package app

import (
	"time"

	"github.com/hearthside/carepath-backend/internal/pkg/logger"
	"github.com/hearthside/carepath-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AllowOrigins    string
	SeedContentPath string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log)
	seedContentPath := utils.GetEnv("SEED_CONTENT_PATH", "", log)
	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		AllowOrigins:    allowOrigins,
		SeedContentPath: seedContentPath,
	}
}
