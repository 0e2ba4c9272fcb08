package service

import (
	"context"
	"encoding/json"

	"chat_service/internal/metrics"
	"chat_service/internal/models"
	"chat_service/pkg/log"
)

// Router 協定狀態機：處理單一會話送來的事件
// 先寫入訊息日誌，成功後才回覆寄件者並嘗試即時投遞給收件者
type Router struct {
	registry *Registry
	messages *MessageService
	history  *HistoryService
}

func NewRouter(registry *Registry, messages *MessageService, history *HistoryService) *Router {
	return &Router{
		registry: registry,
		messages: messages,
		history:  history,
	}
}

// Dispatch 依事件名稱分派；無法解析或不認識的事件直接忽略
// 先看會話狀態再解析內容：Closed 不處理任何事件，未 join 的 send 與 get_messages 一律 NotJoined
func (r *Router) Dispatch(ctx context.Context, s *Session, env *models.Envelope) {
	l := log.Ctx(ctx)

	switch s.State() {
	case StateClosed:
		return
	case StateUnjoined:
		switch env.Event {
		case models.EventSend, models.EventSendMessage:
			r.pushError(ctx, s, models.EventMessageError, ErrNotJoined)
			return
		case models.EventGetMessages:
			r.pushError(ctx, s, models.EventMessagesError, ErrNotJoined)
			return
		}
	}

	switch env.Event {
	case models.EventJoin, models.EventJoinChat:
		var payload models.JoinPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil || payload.Username == "" {
			l.Debug().Str(log.FieldEvent, env.Event).Msg("ignoring join without username")
			return
		}
		r.Join(ctx, s, payload.Username, payload.Role)

	case models.EventSend, models.EventSendMessage:
		var payload models.SendPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			r.pushError(ctx, s, models.EventMessageError, ErrInvalidPayload)
			return
		}
		r.Send(ctx, s, payload)

	case models.EventGetMessages:
		var payload models.GetMessagesPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			r.pushError(ctx, s, models.EventMessagesError, ErrInvalidPayload)
			return
		}
		r.GetMessages(ctx, s, payload.Username)

	default:
		l.Debug().Str(log.FieldEvent, env.Event).Msg("ignoring unknown event")
	}
}

// Join 登記會話；已經 join 過時重新登記
func (r *Router) Join(ctx context.Context, s *Session, username, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}

	s.state = StateJoined
	s.username = username
	s.role = role
	r.registry.Join(username, role, s.channel)

	l := log.Ctx(ctx)
	evt := l.Info()
	if !models.Role(role).Known() {
		evt = l.Warn()
	}
	evt.Str(log.FieldUsername, username).Str(log.FieldRole, role).Msg("session joined")
}

// Send 寫入訊息後回覆 message_sent，收件者在線時再推送 receive_message
// 失敗時只通知寄件者，回傳的錯誤供呼叫端記錄
func (r *Router) Send(ctx context.Context, s *Session, payload models.SendPayload) (*models.Message, error) {
	if state := s.State(); state != StateJoined {
		if state == StateClosed {
			return nil, ErrNotJoined
		}
		r.pushError(ctx, s, models.EventMessageError, ErrNotJoined)
		return nil, ErrNotJoined
	}

	message, err := r.messages.Create(ctx, payload)
	if err != nil {
		r.pushError(ctx, s, models.EventMessageError, err)
		return nil, err
	}
	metrics.MessagesPersisted.WithLabelValues(metrics.SourceWebSocket).Inc()

	l := log.Ctx(ctx)
	joined, _ := s.Identity()
	l.Debug().Str(log.FieldUsername, joined).Uint(log.FieldMessageID, message.ID).Msg("message persisted")
	r.push(ctx, s.channel, models.EventMessageSent, message)

	receiver, ok := r.registry.Lookup(message.ReceiverName)
	if !ok {
		metrics.LiveDeliveries.WithLabelValues(metrics.DeliveryOffline).Inc()
		l.Debug().Uint(log.FieldMessageID, message.ID).Str(log.FieldReceiver, message.ReceiverName).Msg("receiver offline, message kept in history")
		return message, nil
	}
	if r.push(ctx, receiver, models.EventReceiveMessage, message) {
		metrics.LiveDeliveries.WithLabelValues(metrics.DeliveryDelivered).Inc()
	} else {
		metrics.LiveDeliveries.WithLabelValues(metrics.DeliveryDropped).Inc()
		l.Warn().Uint(log.FieldMessageID, message.ID).Str(log.FieldReceiver, message.ReceiverName).Msg("live delivery dropped")
	}
	return message, nil
}

// GetMessages 回傳 username 的歷史訊息給發出請求的會話
func (r *Router) GetMessages(ctx context.Context, s *Session, username string) ([]models.Message, error) {
	if state := s.State(); state != StateJoined {
		if state == StateClosed {
			return nil, ErrNotJoined
		}
		r.pushError(ctx, s, models.EventMessagesError, ErrNotJoined)
		return nil, ErrNotJoined
	}

	messages, err := r.history.ListByParticipant(ctx, username)
	if err != nil {
		r.pushError(ctx, s, models.EventMessagesError, err)
		return nil, err
	}
	r.push(ctx, s.channel, models.EventMessagesList, messages)
	return messages, nil
}

// Disconnect 關閉會話並釋放登記，重複呼叫沒有作用
func (r *Router) Disconnect(ctx context.Context, s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	r.registry.Leave(s.channel)

	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUsername, s.username).Msg("session closed")
}

func (r *Router) pushError(ctx context.Context, s *Session, event string, err error) {
	kind := ErrorKind(err)
	if event == models.EventMessageError {
		metrics.SendErrors.WithLabelValues(kind).Inc()
	}

	l := log.Ctx(ctx)
	if kind == ErrPersistence.Error() {
		l.Error().Err(err).Str(log.FieldEvent, event).Msg("request failed")
	} else {
		l.Debug().Err(err).Str(log.FieldEvent, event).Msg("request rejected")
	}
	r.push(ctx, s.channel, event, models.ErrorPayload{Error: kind})
}

func (r *Router) push(ctx context.Context, ch Channel, event string, data interface{}) bool {
	env, err := models.NewEvent(event, data)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldEvent, event).Msg("event encoding error")
		return false
	}
	return ch.Push(env)
}
