package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhle/folioforge/adapters/event"
	httpAdapter "github.com/minhle/folioforge/adapters/http"
	"github.com/minhle/folioforge/adapters/persistence"
	authUC "github.com/minhle/folioforge/internal/application/usecase/auth"
	portfolioUC "github.com/minhle/folioforge/internal/application/usecase/portfolio"
	"github.com/minhle/folioforge/internal/config"
	"github.com/minhle/folioforge/internal/submission"
	"github.com/minhle/folioforge/pkg/auth"
	"github.com/minhle/folioforge/pkg/logger"
	"github.com/minhle/folioforge/pkg/tracing"
)

func main() {
	fmt.Println("Start FolioForge API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	tracerProvider, err := tracing.NewTracerProvider(cfg, appLogger, "folioforge-api")
	if err != nil {
		log.Fatalf("FATAL: cannot init tracing: %v", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Printf("tracer shutdown: %v", err)
		}
	}()

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	portfolioRepo := persistence.NewPostgresPortfolioRepo(dbPool, appLogger)
	portfolioCache := persistence.NewRedisPortfolioCache(redisClient)
	wizardSessions := persistence.NewRedisWizardSessionRepo(redisClient)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	signupUseCase := authUC.NewSignupUseCase(userRepo, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	createPortfolioUseCase := portfolioUC.NewCreatePortfolioUseCase(portfolioRepo, userRepo, kafkaClient, appLogger)
	getPortfolioUseCase := portfolioUC.NewGetPortfolioUseCase(portfolioRepo, portfolioCache, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(signupUseCase, loginUseCase)
	portfolioHandler := httpAdapter.NewPortfolioHandler(createPortfolioUseCase, getPortfolioUseCase)

	// The wizard submits through the public data endpoint of this same
	// server, so each draft gets its own client pointed back at us.
	selfBaseURL := "http://127.0.0.1:" + cfg.App.Port
	wizardHandler := httpAdapter.NewWizardHandler(wizardSessions, func() httpAdapter.DraftSubmitter {
		return submission.NewClient(selfBaseURL, cfg.App.PublicOrigin, appLogger)
	}, appLogger)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)

	// Setup Gin router
	router := gin.Default()
	router.Use(errorMiddleware)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
		}

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			private.POST("/data", portfolioHandler.CreateData)

			wizardRoutes := private.Group("/wizard")
			{
				wizardRoutes.GET("", wizardHandler.GetSession)
				wizardRoutes.PUT("/data", wizardHandler.UpdateData)
				wizardRoutes.POST("/next", wizardHandler.Next)
				wizardRoutes.POST("/prev", wizardHandler.Prev)
				wizardRoutes.POST("/goto", wizardHandler.GoTo)
				wizardRoutes.POST("/submit", wizardHandler.Submit)
			}
		}

		public := api.Group("/")
		{
			public.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
			public.GET("/data/:slug", portfolioHandler.GetData)
		}
	}

	log.Printf("Server running on port %s", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Cannot run server: %v", err)
	}
}
