package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 應用程式的完整配置
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	WebSocket WebSocketConfig
	Log       LogConfig
}

type ServerConfig struct {
	Address         string
	Port            int
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig 資料庫連線設定，Driver 可為 postgres 或 sqlite
type DBConfig struct {
	Driver       string
	Host         string
	User         string
	Password     string
	Name         string
	Port         int
	SSLMode      string `mapstructure:"sslmode"`
	Path         string // 只有 sqlite 使用
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// WebSocketConfig 控制每個連線的心跳與緩衝
type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
	SendBuffer     int           `mapstructure:"send_buffer"`
}

type LogConfig struct {
	Level  string
	Pretty bool
	File   string
}

// Load 讀取配置
// 配置文件是可選的，找不到時只使用預設值與環境變數
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./pkg/config")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// 與舊版服務相容的環境變數名稱
	v.BindEnv("server.port", "PORT")
	v.BindEnv("db.host", "DB_HOST")
	v.BindEnv("db.port", "DB_PORT")
	v.BindEnv("db.user", "DB_USERNAME")
	v.BindEnv("db.password", "DB_PASSWORD")
	v.BindEnv("db.name", "DB_NAME")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// 未指定監聽地址時，以 port 組出
	config.Server.Address = v.GetString("server.address")
	if config.Server.Address == "" {
		config.Server.Address = fmt.Sprintf(":%d", config.Server.Port)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3004)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "chat-db")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "chat_user")
	v.SetDefault("db.password", "chat_password")
	v.SetDefault("db.name", "chat_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "chat.db")
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.max_open_conns", 20)

	v.SetDefault("websocket.ping_interval", "54s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.send_buffer", 256)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", "")
}
