package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pregai/pregai-backend/internal/chatbot"
	redisclient "github.com/pregai/pregai-backend/internal/clients/redis"
	"github.com/pregai/pregai-backend/internal/db"
	"github.com/pregai/pregai-backend/internal/handlers"
	"github.com/pregai/pregai-backend/internal/logger"
	"github.com/pregai/pregai-backend/internal/middleware"
	"github.com/pregai/pregai-backend/internal/observability"
	"github.com/pregai/pregai-backend/internal/predict"
	"github.com/pregai/pregai-backend/internal/repos"
	"github.com/pregai/pregai-backend/internal/server"
	"github.com/pregai/pregai-backend/internal/services"
	"github.com/pregai/pregai-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	uploadDir := utils.GetEnv("UPLOAD_DIR", "uploads", log)
	modelDir := utils.GetEnv("MODEL_DIR", "models", log)

	// Tracing
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "pregai-backend",
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(ctx); err != nil {
				log.Warn("OTel shutdown failed", "error", err)
			}
		}()
	}

	// Database
	dbService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	gdb := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(gdb, log)
	userTokenRepo := repos.NewUserTokenRepo(gdb, log)
	predictionHistoryRepo := repos.NewPredictionHistoryRepo(gdb, log)

	// Prediction event bus (optional)
	var eventBus redisclient.EventBus
	if bus, busErr := redisclient.NewEventBus(log); busErr != nil {
		log.Warn("Prediction event bus disabled", "error", busErr)
	} else {
		eventBus = bus
		defer eventBus.Close()
	}

	// Predictors
	log.Info("Setting up predictors from main...")
	pregnancyPredictor := predict.NewPregnancyRiskPredictor(log, predict.ProbeArtifact(log, modelDir, "pregnancy_risk_model.pkl"))
	fetalPredictor := predict.NewFetalHealthPredictor(log, predict.ProbeArtifact(log, modelDir, "fetal_health_model.pkl"))
	brainTumorPredictor := predict.NewBrainTumorPredictor(log, predict.ProbeArtifact(log, modelDir, "brain_tumor_model.h5"))

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(gdb, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(gdb, log, userRepo)
	predictionService := services.NewPredictionService(gdb, log, predictionHistoryRepo, brainTumorPredictor, fetalPredictor, pregnancyPredictor, eventBus)

	// Chatbot
	responder, err := chatbot.NewResponder(log)
	if err != nil {
		log.Error("Could not init chatbot responder", "error", err)
		os.Exit(1)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	predictionHandler := handlers.NewPredictionHandler(log, predictionService, uploadDir)
	chatbotHandler := handlers.NewChatbotHandler(responder)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		UserHandler:       userHandler,
		PredictionHandler: predictionHandler,
		ChatbotHandler:    chatbotHandler,
		AllowedOrigins:    allowedOrigins(log),
		TracingEnabled:    otelShutdown != nil,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}

func allowedOrigins(log *logger.Logger) []string {
	raw := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
