package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"chat_service/internal/models"
	"chat_service/internal/repository"
)

// MessageService 驗證並寫入訊息，WebSocket 的 send 與 REST 建立共用
type MessageService struct {
	messageRepo repository.MessageRepository
	validate    *validator.Validate
	onPersisted []func(*models.Message)
}

func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	validate := validator.New()
	validate.RegisterValidation("notblank", validators.NotBlank)
	return &MessageService{
		messageRepo: messageRepo,
		validate:    validate,
	}
}

// OnPersisted 註冊寫入成功後的回呼，只在啟動組裝時呼叫
func (s *MessageService) OnPersisted(fn func(*models.Message)) {
	s.onPersisted = append(s.onPersisted, fn)
}

// Validate 所有欄位都必須存在，且不能只有空白
func (s *MessageService) Validate(input models.SendPayload) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// Create 驗證後寫入，成功時回傳帶有 ID 與 CreatedAt 的完整紀錄
// 寫入失敗不重試，由呼叫端決定
func (s *MessageService) Create(ctx context.Context, input models.SendPayload) (*models.Message, error) {
	if err := s.Validate(input); err != nil {
		return nil, err
	}

	message := models.NewMessage(input.SenderName, input.SenderRole, input.ReceiverName, input.ReceiverRole, input.Message)
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	for _, fn := range s.onPersisted {
		fn(message)
	}
	return message, nil
}
