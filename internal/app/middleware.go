package app

import (
	"github.com/packtrace/sdp-backend/internal/middleware"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, cfg.APIToken, cfg.JWTSecret),
	}
}
