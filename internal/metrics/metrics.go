package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesPersisted - 成功寫入的訊息數量，依來源區分（ws 或 rest）.
	MessagesPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_persisted_total",
			Help: "Total number of messages appended to the message log",
		},
		[]string{"source"},
	)

	// SendErrors - send 失敗次數，依錯誤種類區分.
	SendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_send_errors_total",
			Help: "Total number of rejected or failed send events",
		},
		[]string{"kind"},
	)

	// LiveDeliveries - 即時投遞結果：delivered、offline、dropped.
	LiveDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_live_deliveries_total",
			Help: "Outcome of best-effort live delivery to the receiver",
		},
		[]string{"result"},
	)

	// ConnectedSessions - 目前開啟的 WebSocket 連線數.
	ConnectedSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_sessions",
		Help: "Number of currently open websocket sessions",
	})

	// RegisteredUsers - 連線登記表中的使用者數.
	RegisteredUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_registered_users",
		Help: "Number of usernames currently reachable through the registry",
	})

	// HistoryQueryDuration - 歷史查詢耗時.
	HistoryQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_history_query_seconds",
			Help:    "Latency of history queries against the message log",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)
)

const (
	SourceWebSocket = "ws"
	SourceREST      = "rest"

	DeliveryDelivered = "delivered"
	DeliveryOffline   = "offline"
	DeliveryDropped   = "dropped"
)
