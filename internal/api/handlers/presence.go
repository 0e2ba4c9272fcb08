package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat_service/internal/service"
)

type PresenceHandler struct {
	registry *service.Registry
}

func NewPresenceHandler(registry *service.Registry) *PresenceHandler {
	return &PresenceHandler{registry: registry}
}

// GetPresence 回報使用者目前是否在線
func (h *PresenceHandler) GetPresence(c *gin.Context) {
	username := c.Param("username")
	role, online := h.registry.Role(username)

	resp := gin.H{"username": username, "online": online}
	if online {
		resp["role"] = role
	}
	c.JSON(http.StatusOK, resp)
}
