package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gamehub/cache"
	"gamehub/config"
	"gamehub/db"
	"gamehub/handlers"
	"gamehub/mail"
	"gamehub/middleware"
	"gamehub/monitoring"
	"gamehub/repository"
	"gamehub/service"
	"gamehub/utils"
)

func main() {
	cfg := config.Load()

	logger := utils.NewLogger(cfg.LogLevel, cfg.GinMode)

	database, err := db.Init(cfg)
	if err != nil {
		log.Fatal("failed to init database: ", err)
	}
	logger.Info("Database connected and migrated")

	redisClient, err := cache.NewClient(cfg)
	if err != nil {
		log.Fatal("failed to init redis: ", err)
	}
	defer redisClient.Close()
	cacheStore := cache.NewStore(redisClient)

	monitoring.InitMetrics()

	gameRepo := repository.NewGameRepository(database, cfg.PageSize)
	catalogRepo := repository.NewCatalogRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	userRepo := repository.NewUserRepository(database)
	statsRepo := repository.NewStatsRepository(database)

	mailer := mail.NewMailer(cfg)

	gameService := service.NewGameService(gameRepo, cacheStore, logger)
	catalogService := service.NewCatalogService(catalogRepo, cacheStore, logger)
	reviewService := service.NewReviewService(reviewRepo, cacheStore, logger)
	authService := service.NewAuthService(userRepo, cacheStore, mailer, cfg.JWTSecret, logger)
	statsService := service.NewStatsService(statsRepo, cacheStore, logger)

	gameHandler := handlers.NewGameHandler(gameService)
	genreHandler := handlers.NewGenreHandler(catalogService)
	platformHandler := handlers.NewPlatformHandler(catalogService)
	ratingHandler := handlers.NewAgeRatingHandler(catalogService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	authHandler := handlers.NewAuthHandler(authService)
	statsHandler := handlers.NewStatsHandler(statsService)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(monitoring.PrometheusMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", monitoring.MetricsHandler())

	// Public routes
	r.POST("/login", authHandler.Login)
	r.POST("/users", authHandler.Register)
	r.POST("/password/recover", authHandler.Recover)
	r.POST("/password/reset", authHandler.Reset)
	r.GET("/games", gameHandler.List)
	r.GET("/games/search", gameHandler.Search)
	r.GET("/games/:id", gameHandler.Get)
	r.GET("/games/:id/reviews", reviewHandler.ListByGame)
	r.GET("/genres", genreHandler.List)
	r.GET("/platforms", platformHandler.List)
	r.GET("/age-ratings", ratingHandler.List)

	protected := r.Group("/").Use(middleware.Auth(authService))
	{
		protected.POST("/games", gameHandler.Create)
		protected.PUT("/games/:id", gameHandler.Update)
		protected.DELETE("/games/:id", gameHandler.Delete)
		protected.POST("/genres", genreHandler.Create)
		protected.PUT("/genres/:id", genreHandler.Update)
		protected.DELETE("/genres/:id", genreHandler.Delete)
		protected.POST("/platforms", platformHandler.Create)
		protected.PUT("/platforms/:id", platformHandler.Update)
		protected.DELETE("/platforms/:id", platformHandler.Delete)
		protected.POST("/age-ratings", ratingHandler.Create)
		protected.POST("/reviews", reviewHandler.Create)
		protected.DELETE("/reviews/:id", reviewHandler.Delete)
		protected.GET("/admin/stats", statsHandler.Dashboard)
	}

	logger.Info("Starting server on port ", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}
