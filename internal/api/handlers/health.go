package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat_service/internal/service"
	"chat_service/pkg/log"
)

type HealthHandler struct {
	registry       *service.Registry
	historyService *service.HistoryService
}

func NewHealthHandler(registry *service.Registry, historyService *service.HistoryService) *HealthHandler {
	return &HealthHandler{registry: registry, historyService: historyService}
}

// GetHealth 回報服務狀態；讀不到訊息日誌時回 503
func (h *HealthHandler) GetHealth(c *gin.Context) {
	online := h.registry.Len()

	total, err := h.historyService.Total(c.Request.Context())
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"online": online,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"online":   online,
		"messages": total,
	})
}
