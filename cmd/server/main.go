package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lcr-attendance-backend/internal/config"
	"lcr-attendance-backend/internal/logging"
	"lcr-attendance-backend/internal/models"
	"lcr-attendance-backend/internal/routes"
)

func main() {
	cfg := config.Load()
	log := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.JSONLogs()})

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.GinMiddleware(logging.Component(log, "http")))
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, routes.Build(db, cfg, log))

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
