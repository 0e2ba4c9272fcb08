package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"chat_service/internal/api"
	"chat_service/internal/models"
	"chat_service/internal/repository"
	"chat_service/internal/service"
	"chat_service/internal/storage"
	"chat_service/pkg/config"
	"chat_service/pkg/log"
)

func main() {
	// 載入應用程式配置
	// 設定檔可選，預設值與環境變數即可啟動
	cfg, err := config.Load()
	if err != nil {
		l := log.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	log.Init(log.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, File: cfg.Log.File})
	logger := log.L()

	// 初始化資料庫連接
	db, err := storage.NewDB(cfg.DB)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("failed to initialize database")
	}
	// 確保在程序結束時關閉數據庫連接
	defer db.Close()

	// 自動遷移資料庫結構，只有 messages 一張表
	if err := db.AutoMigrate(&models.Message{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto migrate database")
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg.WebSocket)

	// gin 的啟動與路由輸出也走 zerolog
	gin.DefaultWriter = log.Writer("gin")
	gin.DefaultErrorWriter = log.Writer("gin")

	r := gin.New()
	r.Use(gin.Recovery())
	api.SetupRoutes(r, services, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Address).Msg("chat service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
