package service

import (
	"errors"
)

// 協定層的錯誤種類，錯誤字串即為回傳給客戶端的值
var (
	ErrInvalidPayload = errors.New("InvalidPayload")
	ErrNotJoined      = errors.New("NotJoined")
	ErrPersistence    = errors.New("PersistenceError")
)

// ErrorKind 把錯誤歸類成客戶端看得到的錯誤種類
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPayload):
		return ErrInvalidPayload.Error()
	case errors.Is(err, ErrNotJoined):
		return ErrNotJoined.Error()
	default:
		return ErrPersistence.Error()
	}
}
