package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"innovation_hunt/internal/api"
	"innovation_hunt/internal/categorizer"
	"innovation_hunt/internal/messenger"
	"innovation_hunt/internal/middleware"
	"innovation_hunt/internal/repository"
	"innovation_hunt/internal/service"
	"innovation_hunt/pkg/auth"
	"innovation_hunt/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err = logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	if err = repo.Migrate(context.Background()); err != nil {
		zapLogger.Fatal("Failed to apply database schema", zap.Error(err))
	}

	redisClient, err := repository.NewRedis(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	states := repository.NewOnboardingStates(redisClient, cfg.Redis.KeyPrefix)
	board := repository.NewLeaderboard(redisClient, cfg.Redis.KeyPrefix)

	userService := service.NewUserService(repo)
	onboardingService := service.NewOnboardingService(repo, states)
	gameService := service.NewGameService(userService, repo, repo, board, cfg.Game.ConnectPoints, zapLogger)
	svc := service.NewService(userService, onboardingService, gameService)

	classifier := categorizer.NewHFClient(cfg.HuggingFace)
	sender := messenger.NewTwilio(messenger.Config{
		AccountSID:   cfg.Twilio.AccountSID,
		AuthToken:    cfg.Twilio.AuthToken,
		WhatsAppFrom: cfg.Twilio.WhatsAppFrom,
	}, zapLogger)
	twilioAuth := auth.NewTwilioAuth(cfg.Twilio.AuthToken, cfg.Twilio.ValidateSignature)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	live := api.NewLiveLeaderboard(gameService)

	v1 := router.Group("/api/v1")
	api.NewWebhookRoutes(v1, svc, classifier, sender, live, twilioAuth,
		cfg.Game.JoinKeyword, cfg.Twilio.WhatsAppFrom, cfg.Server.PublicBaseURL)
	api.NewLeaderboardRoutes(v1, gameService)
	api.NewMediaRoutes(v1, userService, cfg.Twilio.WhatsAppFrom)
	api.NewLiveRoutes(v1, live)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))

	if err = router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
