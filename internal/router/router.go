package router

import (
	"github.com/chirper-app/backend/internal/fanout"
	"github.com/chirper-app/backend/internal/handlers"
	"github.com/chirper-app/backend/internal/metrics"
	"github.com/chirper-app/backend/internal/middleware"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, logger *zap.Logger, jwtSecret string) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}
	logger.Info("auto-migrations completed")

	// Always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	feedRepo := repositories.NewPostgresFeedRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	notifier := fanout.NewNotifier(notificationRepo, logger)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(jwtSecret))

	userHandler := handlers.NewUserHandler(userRepo, followRepo, postRepo, likeRepo)
	userHandler.RegisterUserRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, notifier)
	followHandler.RegisterFollowRoutes(api)

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, notifier)
	likeHandler.RegisterLikeRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedRepo, userRepo, likeRepo)
	feedHandler.RegisterFeedRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	logger.Info("all routes configured")
	return nil
}
