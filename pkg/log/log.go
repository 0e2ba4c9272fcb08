// Package log 提供全域的 zerolog 記錄器與以 context 傳遞的子記錄器。
package log

import (
	"context"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 記錄器設定
type Config struct {
	Level  string
	Pretty bool
	File   string // 非空時另外寫入可輪替的檔案
}

var (
	global zerolog.Logger
	once   sync.Once
)

func init() {
	global = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// New 依設定建立一個 zerolog.Logger
func New(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}
	if cfg.File != "" {
		w = io.MultiWriter(w, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    64,
			MaxBackups: 16,
			MaxAge:     30,
			Compress:   true,
		})
	}

	return zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

// Init 設定全域記錄器，只在啟動時呼叫一次
// 同時把標準庫 log 導向 zerolog
func Init(cfg Config) {
	once.Do(func() {
		global = New(cfg)

		stdlog.SetFlags(0)
		stdlog.SetOutput(Writer("stdlog"))
	})
}

// Writer 以全域記錄器包出一個 io.Writer，每次寫入成為一筆帶 source 欄位的紀錄
// 給 gin.DefaultWriter 這類只接受 io.Writer 的套件使用
func Writer(source string) io.Writer {
	return L().With().Str(FieldSource, source).Logger()
}

// L 取得全域記錄器
func L() zerolog.Logger {
	return global
}

type ctxKey struct{}

// WithLogger 把記錄器放進 context
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Ctx 從 context 取出記錄器，沒有時回傳全域記錄器
func Ctx(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return L()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
