package models

import (
	"time"
)

// Message 一則已持久化的聊天訊息，建立後不再修改或刪除
// ID 由資料庫遞增產生，CreatedAt 在寫入時產生；兩者共同決定排序
type Message struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderName   string    `gorm:"type:varchar(255);not null;index" json:"senderName"`
	SenderRole   string    `gorm:"type:varchar(50);not null" json:"senderRole"`
	ReceiverName string    `gorm:"type:varchar(255);not null;index" json:"receiverName"`
	ReceiverRole string    `gorm:"type:varchar(50);not null" json:"receiverRole"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// TableName 與舊版服務使用同一張資料表
func (Message) TableName() string {
	return "messages"
}

// NewMessage 建立尚未寫入的訊息，ID 與 CreatedAt 留給儲存層
func NewMessage(senderName, senderRole, receiverName, receiverRole, body string) *Message {
	return &Message{
		SenderName:   senderName,
		SenderRole:   senderRole,
		ReceiverName: receiverName,
		ReceiverRole: receiverRole,
		Message:      body,
	}
}

// Involves 判斷 username 是否為寄件者或收件者
func (m *Message) Involves(username string) bool {
	return m.SenderName == username || m.ReceiverName == username
}
