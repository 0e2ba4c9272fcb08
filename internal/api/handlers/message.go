package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat_service/internal/metrics"
	"chat_service/internal/middleware"
	"chat_service/internal/models"
	"chat_service/internal/service"
	"chat_service/pkg/log"
)

// MessageHandler 訊息的 REST 介面：非即時的建立與歷史查詢
type MessageHandler struct {
	messageService *service.MessageService
	historyService *service.HistoryService
}

// NewMessageHandler 創建一個新的 MessageHandler 實例
func NewMessageHandler(messageService *service.MessageService, historyService *service.HistoryService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		historyService: historyService,
	}
}

// CreateMessage 寫入一則訊息，不會即時推送給收件者
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var input models.SendPayload
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidPayload.Error()})
		return
	}

	message, err := h.messageService.Create(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	metrics.MessagesPersisted.WithLabelValues(metrics.SourceREST).Inc()

	// 只記錄上游附加的呼叫者，不限制誰能以誰的名義寫入
	l := log.Ctx(c.Request.Context())
	evt := l.Info()
	if identity, ok := middleware.GetIdentity(c); ok {
		if identity.Username != message.SenderName {
			evt = l.Warn()
		}
		evt = evt.Str(log.FieldUsername, identity.Username).Str(log.FieldRole, identity.Role)
	}
	evt.Uint(log.FieldMessageID, message.ID).
		Str("sender", message.SenderName).
		Str(log.FieldReceiver, message.ReceiverName).
		Msg("message created")

	c.JSON(http.StatusCreated, message)
}

// GetMessagesByUser 查詢使用者寄出或收到的訊息
func (h *MessageHandler) GetMessagesByUser(c *gin.Context) {
	messages, err := h.historyService.ListByParticipant(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// GetConversation 查詢兩個使用者之間的對話
func (h *MessageHandler) GetConversation(c *gin.Context) {
	messages, err := h.historyService.Conversation(c.Request.Context(), c.Param("user1"), c.Param("user2"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidPayload) {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrorKind(err)})
		return
	}

	l := log.Ctx(c.Request.Context())
	l.Error().Err(err).Msg("message request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrorKind(err)})
}
