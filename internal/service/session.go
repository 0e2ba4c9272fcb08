package service

import (
	"sync"
)

// SessionState 單一連線的協定狀態
type SessionState int

const (
	StateUnjoined SessionState = iota
	StateJoined
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateUnjoined:
		return "unjoined"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session 一個連線從建立到斷線的狀態，Closed 之後不再處理任何事件
type Session struct {
	ID      string
	channel Channel

	mu       sync.RWMutex
	state    SessionState
	username string
	role     string
}

func NewSession(id string, ch Channel) *Session {
	return &Session{ID: id, channel: ch, state: StateUnjoined}
}

func (s *Session) Channel() Channel {
	return s.channel
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity join 時宣告的使用者名稱與角色
func (s *Session) Identity() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username, s.role
}
