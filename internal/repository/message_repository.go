package repository

import (
	"context"
	"errors"
	"time"

	"chat_service/internal/models"
	"chat_service/internal/storage"
)

// MessageRepository 只能附加的訊息日誌
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByParticipant(ctx context.Context, username string) ([]models.Message, error)
	FindConversation(ctx context.Context, userA, userB string) ([]models.Message, error)
	Count(ctx context.Context) (int64, error)
}

const orderByTimeline = "created_at asc, id asc"

type messageRepository struct {
	db  *storage.DB
	now func() time.Time
}

func NewMessageRepository(db *storage.DB) MessageRepository {
	return &messageRepository{db: db, now: time.Now}
}

// Create 寫入一則新訊息並回填 ID 與 CreatedAt
// ID 由資料庫的自動遞增欄位配發，並發寫入不會拿到相同的 ID
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.ID != 0 {
		return errors.New("message already persisted")
	}
	// 截到微秒，與 postgres timestamp 的精度一致
	message.CreatedAt = r.now().UTC().Truncate(time.Microsecond)
	return r.db.WithContext(ctx).Create(message).Error
}

// FindByParticipant 查詢 username 寄出或收到的所有訊息
func (r *messageRepository) FindByParticipant(ctx context.Context, username string) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.WithContext(ctx).
		Where("sender_name = ? OR receiver_name = ?", username, username).
		Order(orderByTimeline).
		Find(&messages).Error
	return messages, err
}

// FindConversation 查詢兩人之間的對話，參數順序不影響結果
func (r *messageRepository) FindConversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.WithContext(ctx).
		Where("(sender_name = ? AND receiver_name = ?) OR (sender_name = ? AND receiver_name = ?)",
			userA, userB, userB, userA).
		Order(orderByTimeline).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Count(&count).Error
	return count, err
}
