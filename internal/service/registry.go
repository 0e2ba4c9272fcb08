package service

import (
	"sync"

	"chat_service/internal/metrics"
	"chat_service/internal/models"
)

// Channel 一個會話專屬、可推送事件的目的地
// Push 不可阻塞，回傳 false 表示事件沒有送進去
type Channel interface {
	Push(event *models.Envelope) bool
}

type registryEntry struct {
	username string
	role     string
	channel  Channel
}

// Registry 使用者名稱到目前連線的對應表
// 同一個使用者名稱只保留最後一次 join 的連線，被取代的連線不會收到通知
type Registry struct {
	mu        sync.RWMutex
	byName    map[string]*registryEntry
	byChannel map[Channel]string
}

func NewRegistry() *Registry {
	return &Registry{
		byName:    make(map[string]*registryEntry),
		byChannel: make(map[Channel]string),
	}
}

// Join 登記或覆蓋 username 的連線
func (r *Registry) Join(username, role string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 同一個連線改用別的名稱 join 時，舊名稱不再指向它
	if prev, ok := r.byChannel[ch]; ok && prev != username {
		if e, ok := r.byName[prev]; ok && e.channel == ch {
			delete(r.byName, prev)
		}
	}
	// 被取代的舊連線之後呼叫 Leave 不能移除新的登記
	if old, ok := r.byName[username]; ok && old.channel != ch {
		delete(r.byChannel, old.channel)
	}

	r.byName[username] = &registryEntry{username: username, role: role, channel: ch}
	r.byChannel[ch] = username
	metrics.RegisteredUsers.Set(float64(len(r.byName)))
}

// Leave 移除 channel 對應的登記，不存在時什麼都不做
func (r *Registry) Leave(ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	username, ok := r.byChannel[ch]
	if !ok {
		return
	}
	delete(r.byChannel, ch)
	if e, ok := r.byName[username]; ok && e.channel == ch {
		delete(r.byName, username)
	}
	metrics.RegisteredUsers.Set(float64(len(r.byName)))
}

// Lookup 查詢 username 目前的連線
func (r *Registry) Lookup(username string) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byName[username]
	if !ok {
		return nil, false
	}
	return e.channel, true
}

// Len 目前可連絡的使用者數
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Role 回傳 username 登記時宣告的角色
func (r *Registry) Role(username string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byName[username]
	if !ok {
		return "", false
	}
	return e.role, true
}
