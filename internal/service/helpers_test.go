package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat_service/internal/models"
)

// memRepository 以記憶體實作的訊息日誌，可指定寫入失敗
type memRepository struct {
	mu         sync.Mutex
	messages   []models.Message
	nextID     uint
	createErr  error
	queryErr   error
	queryCalls int
}

func (r *memRepository) Create(_ context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	message.ID = r.nextID
	message.CreatedAt = time.Now().UTC()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *memRepository) filter(keep func(m models.Message) bool) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queryCalls++
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	out := []models.Message{}
	for _, m := range r.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memRepository) FindByParticipant(_ context.Context, username string) ([]models.Message, error) {
	return r.filter(func(m models.Message) bool { return m.Involves(username) })
}

func (r *memRepository) FindConversation(_ context.Context, a, b string) ([]models.Message, error) {
	return r.filter(func(m models.Message) bool {
		return (m.SenderName == a && m.ReceiverName == b) || (m.SenderName == b && m.ReceiverName == a)
	})
}

func (r *memRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.messages)), nil
}

// recordingChannel 記錄所有推送進來的事件
type recordingChannel struct {
	mu     sync.Mutex
	events []*models.Envelope
	full   bool
}

func (c *recordingChannel) Push(event *models.Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return false
	}
	c.events = append(c.events, event)
	return true
}

func (c *recordingChannel) Events() []*models.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*models.Envelope(nil), c.events...)
}

func (c *recordingChannel) Names() []string {
	var names []string
	for _, e := range c.Events() {
		names = append(names, e.Event)
	}
	return names
}

func decodeMessage(t *testing.T, env *models.Envelope) models.Message {
	t.Helper()
	var m models.Message
	require.NoError(t, json.Unmarshal(env.Data, &m))
	return m
}

func decodeError(t *testing.T, env *models.Envelope) string {
	t.Helper()
	var p models.ErrorPayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p.Error
}

func envelope(t *testing.T, event string, data interface{}) *models.Envelope {
	t.Helper()
	env, err := models.NewEvent(event, data)
	require.NoError(t, err)
	return env
}

func newTestRouter(repo *memRepository) (*Router, *Registry) {
	registry := NewRegistry()
	messages, history := NewMessageService(repo), NewHistoryService(repo)
	messages.OnPersisted(history.Invalidate)
	return NewRouter(registry, messages, history), registry
}

func alicePayload(body string) models.SendPayload {
	return models.SendPayload{
		SenderName:   "alice",
		SenderRole:   "CLIENT",
		ReceiverName: "bob",
		ReceiverRole: "ADMIN",
		Message:      body,
	}
}
