package models

import (
	"encoding/json"
)

// 客戶端送來的事件
const (
	EventJoin        = "join"
	EventSend        = "send"
	EventGetMessages = "get_messages"

	// 舊版前端使用的名稱
	EventJoinChat    = "join_chat"
	EventSendMessage = "send_message"
)

// 推送給客戶端的事件
const (
	EventMessageSent    = "message_sent"
	EventReceiveMessage = "receive_message"
	EventMessageError   = "message_error"
	EventMessagesList   = "messages_list"
	EventMessagesError  = "messages_error"
)

// Envelope WebSocket 訊框的外層結構，兩個方向共用
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinPayload join 事件內容
type JoinPayload struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SendPayload send 事件內容，也是 REST 建立訊息的輸入
type SendPayload struct {
	SenderName   string `json:"senderName" binding:"required" validate:"required,notblank"`
	SenderRole   string `json:"senderRole" binding:"required" validate:"required,notblank"`
	ReceiverName string `json:"receiverName" binding:"required" validate:"required,notblank"`
	ReceiverRole string `json:"receiverRole" binding:"required" validate:"required,notblank"`
	Message      string `json:"message" binding:"required" validate:"required,notblank"`
}

// GetMessagesPayload get_messages 事件內容
type GetMessagesPayload struct {
	Username string `json:"username"`
}

// ErrorPayload 錯誤事件內容
type ErrorPayload struct {
	Error string `json:"error"`
}

// NewEvent 把任意內容包成一個待送出的事件
func NewEvent(event string, data interface{}) (*Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Envelope{Event: event, Data: raw}, nil
}
