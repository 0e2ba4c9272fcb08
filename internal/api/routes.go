package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"chat_service/internal/api/handlers"
	"chat_service/internal/middleware"
	"chat_service/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, logger zerolog.Logger) {
	// 初始化 handlers
	messageHandler := handlers.NewMessageHandler(services.MessageService, services.HistoryService)
	presenceHandler := handlers.NewPresenceHandler(services.Registry)
	healthHandler := handlers.NewHealthHandler(services.Registry, services.HistoryService)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketService)

	r.Use(middleware.CORS(), middleware.TrustedIdentity(), middleware.RequestLogger(logger))

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "route not found",
		})
	})

	// WebSocket 連接點
	r.GET("/ws", wsHandler.HandleWebSocket)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 訊息的 REST 路徑與舊服務相同，不加 /api 前綴
	messages := r.Group("/messages")
	{
		messages.POST("", messageHandler.CreateMessage)
		messages.GET("/:username", messageHandler.GetMessagesByUser)
		messages.GET("/conversation/:user1/:user2", messageHandler.GetConversation)
	}

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.GetHealth)
		api.GET("/presence/:username", presenceHandler.GetPresence)
	}
}
