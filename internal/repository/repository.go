package repository

import "chat_service/internal/storage"

type Repositories struct {
	Message MessageRepository
}

func NewRepositories(db *storage.DB) *Repositories {
	return &Repositories{
		Message: NewMessageRepository(db),
	}
}
