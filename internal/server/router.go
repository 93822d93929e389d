package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/pregai/pregai-backend/internal/handlers"
	"github.com/pregai/pregai-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	UserHandler       *handlers.UserHandler
	PredictionHandler *handlers.PredictionHandler
	ChatbotHandler    *handlers.ChatbotHandler
	AllowedOrigins    []string
	TracingEnabled    bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("pregai-backend"))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     trimOrigins(origins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user/me", cfg.UserHandler.GetMe)
	// Predictions
	protected.POST("/predict/brain-tumor", cfg.PredictionHandler.PredictBrainTumor)
	protected.POST("/predict/fetal-health", cfg.PredictionHandler.PredictFetalHealth)
	protected.POST("/predict/pregnancy-risk", cfg.PredictionHandler.PredictPregnancyRisk)
	protected.GET("/predict/history", cfg.PredictionHandler.GetHistory)
	// Chatbot
	protected.POST("/chatbot/message", cfg.ChatbotHandler.Message)
	protected.GET("/chatbot/suggestions", cfg.ChatbotHandler.Suggestions)

	return router
}

func trimOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
