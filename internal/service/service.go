package service

import (
	"chat_service/internal/repository"
	"chat_service/pkg/config"
)

type Services struct {
	Registry         *Registry
	MessageService   *MessageService
	HistoryService   *HistoryService
	Router           *Router
	WebSocketService *WebSocketService
}

func NewServices(repos *repository.Repositories, wsCfg config.WebSocketConfig) *Services {
	registry := NewRegistry()
	messageService := NewMessageService(repos.Message)
	historyService := NewHistoryService(repos.Message)
	messageService.OnPersisted(historyService.Invalidate)
	router := NewRouter(registry, messageService, historyService)

	return &Services{
		Registry:         registry,
		MessageService:   messageService,
		HistoryService:   historyService,
		Router:           router,
		WebSocketService: NewWebSocketService(router, wsCfg),
	}
}
