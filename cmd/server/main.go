package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/myeventng/somarv26/internal/config"
	"github.com/myeventng/somarv26/internal/db"
	"github.com/myeventng/somarv26/internal/logger"
	"github.com/myeventng/somarv26/internal/router"
	"github.com/myeventng/somarv26/internal/service"
	"github.com/myeventng/somarv26/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	logger.Init(cfg.GinMode == gin.DebugMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to initialize database")
	}

	if err := db.EnsureAdmin(cfg.AdminBootstrapEmail, cfg.AdminBootstrapPassword); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to ensure admin account")
	}

	store, err := storage.New(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	emails := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AdminEmail)

	r := router.Setup(cfg, db.DB, store, emails)

	logger.Log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to run server")
	}
}
