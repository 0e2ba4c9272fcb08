package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat_service/internal/metrics"
	"chat_service/internal/models"
	"chat_service/pkg/config"
	"chat_service/pkg/log"
)

// Client 代表一個 WebSocket 客戶端連接，也是該會話的 Channel
type Client struct {
	ID   string
	Conn *websocket.Conn

	send      chan []byte   // 待寫出的訊框
	done      chan struct{} // 關閉後不再接受推送
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, bufferSize int) *Client {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Client{
		ID:   uuid.New().String(),
		Conn: conn,
		send: make(chan []byte, bufferSize),
		done: make(chan struct{}),
	}
}

// Push 把事件放進發送隊列；隊列已滿或連線已關閉時丟棄
func (c *Client) Push(event *models.Envelope) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}

	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close 停止接受推送並讓 writePump 結束
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// WebSocketService 負責每個連線的讀寫迴圈，事件交給 Router 處理
type WebSocketService struct {
	router *Router
	cfg    config.WebSocketConfig
}

func NewWebSocketService(router *Router, cfg config.WebSocketConfig) *WebSocketService {
	return &WebSocketService{router: router, cfg: cfg}
}

// HandleConnection 處理一個已升級的連線，直到連線中斷才返回
func (s *WebSocketService) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	client := NewClient(conn, s.cfg.SendBuffer)
	session := NewSession(client.ID, client)

	logger := log.Ctx(ctx).With().Str(log.FieldClientID, client.ID).Logger()
	ctx = log.WithLogger(ctx, logger)

	metrics.ConnectedSessions.Inc()
	logger.Info().Msg("client connected")

	// 確保連接關閉時清理資源
	defer func() {
		s.router.Disconnect(ctx, session)
		client.Close()
		conn.Close()
		metrics.ConnectedSessions.Dec()
		logger.Info().Msg("client disconnected")
	}()

	go s.writePump(client)
	s.readPump(ctx, client, session)
}

// readPump 持續讀取客戶端的訊框並依序處理
func (s *WebSocketService) readPump(ctx context.Context, client *Client, session *Session) {
	l := log.Ctx(ctx)

	if s.cfg.MaxMessageSize > 0 {
		client.Conn.SetReadLimit(s.cfg.MaxMessageSize)
	}
	if s.cfg.PongWait > 0 {
		client.Conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
		client.Conn.SetPongHandler(func(string) error {
			client.Conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
			return nil
		})
	}

	for {
		_, frame, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				l.Debug().Err(err).Msg("websocket unexpected close error")
			}
			return
		}

		var env models.Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			l.Debug().Err(err).Msg("message parse error")
			continue
		}

		s.router.Dispatch(ctx, session, &env)
	}
}

// writePump 把發送隊列寫到連線上，並定期送出 ping
func (s *WebSocketService) writePump(client *Client) {
	interval := s.cfg.PingInterval
	if interval <= 0 {
		interval = 54 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case frame := <-client.send:
			client.Conn.SetWriteDeadline(time.Now().Add(s.writeWait()))
			if err := client.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				client.Close()
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(s.writeWait()))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.Close()
				return
			}

		case <-client.done:
			client.Conn.SetWriteDeadline(time.Now().Add(s.writeWait()))
			client.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *WebSocketService) writeWait() time.Duration {
	if s.cfg.WriteWait > 0 {
		return s.cfg.WriteWait
	}
	return 10 * time.Second
}
