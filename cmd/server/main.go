package main

import (
	"log"

	"github.com/chirper-app/backend/internal/router"
	"github.com/chirper-app/backend/internal/validators"
	"github.com/chirper-app/backend/pkg/config"
	"github.com/chirper-app/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	e := echo.New()

	router.SetupMiddleware(e)

	if err := router.SetupRoutes(e, db.Postgres, zlog, cfg.JWTSecret); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	e.Validator = validators.NewValidator()

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
