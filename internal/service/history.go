package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"chat_service/internal/metrics"
	"chat_service/internal/models"
	"chat_service/internal/repository"
)

// HistoryService 訊息日誌的唯讀查詢
// 相同的查詢同時進來時只會打一次資料庫
type HistoryService struct {
	messageRepo repository.MessageRepository
	sf          singleflight.Group
}

func NewHistoryService(messageRepo repository.MessageRepository) *HistoryService {
	return &HistoryService{messageRepo: messageRepo}
}

// ListByParticipant username 寄出或收到的訊息，依 (createdAt, id) 遞增
func (s *HistoryService) ListByParticipant(ctx context.Context, username string) ([]models.Message, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidPayload)
	}
	return s.query(ctx, "participant", participantKey(username), func(ctx context.Context) ([]models.Message, error) {
		return s.messageRepo.FindByParticipant(ctx, username)
	})
}

// Conversation 兩人之間的訊息，(a, b) 與 (b, a) 結果相同
func (s *HistoryService) Conversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	if strings.TrimSpace(userA) == "" || strings.TrimSpace(userB) == "" {
		return nil, fmt.Errorf("%w: both usernames are required", ErrInvalidPayload)
	}
	key := conversationKey(userA, userB)
	if userA > userB {
		userA, userB = userB, userA
	}
	return s.query(ctx, "conversation", key, func(ctx context.Context) ([]models.Message, error) {
		return s.messageRepo.FindConversation(ctx, userA, userB)
	})
}

// Total 日誌中的訊息總數，不經過 singleflight
func (s *HistoryService) Total(ctx context.Context) (int64, error) {
	count, err := s.messageRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return count, nil
}

// Invalidate 新訊息寫入後呼叫，之後進來的查詢不會併入寫入前已開始的查詢
func (s *HistoryService) Invalidate(message *models.Message) {
	s.sf.Forget(participantKey(message.SenderName))
	s.sf.Forget(participantKey(message.ReceiverName))
	s.sf.Forget(conversationKey(message.SenderName, message.ReceiverName))
}

// query 合併相同 key 的並行查詢
// 共用的查詢不受任何單一呼叫端取消影響，各呼叫端只等待自己的 ctx
func (s *HistoryService) query(ctx context.Context, name, key string, fn func(ctx context.Context) ([]models.Message, error)) ([]models.Message, error) {
	start := time.Now()
	defer func() {
		metrics.HistoryQueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	shared := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		return fn(shared)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrPersistence, ctx.Err())
	}
	if res.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, res.Err)
	}

	messages, _ := res.Val.([]models.Message)
	if messages == nil {
		// 沒有紀錄時回傳空陣列而不是 null
		messages = []models.Message{}
	}
	return messages, nil
}

func participantKey(username string) string {
	return "user:" + username
}

func conversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return "conv:" + a + "\x00" + b
}
