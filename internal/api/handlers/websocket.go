package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chat_service/internal/service"
	"chat_service/pkg/log"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 前端部署在不同網域
	},
}

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	wsService *service.WebSocketService
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(wsService *service.WebSocketService) *WebSocketHandler {
	return &WebSocketHandler{wsService: wsService}
}

// HandleWebSocket 升級連線後交給 WebSocketService，直到連線中斷
// 身分由 join 事件宣告，不在這裡檢查
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已經回覆了錯誤
		l := log.Ctx(c.Request.Context())
		l.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.wsService.HandleConnection(c.Request.Context(), conn)
}
