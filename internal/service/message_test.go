package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageServiceCreate(t *testing.T) {
	repo := &memRepository{}
	svc := NewMessageService(repo)

	first, err := svc.Create(context.Background(), alicePayload("Hola"))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), alicePayload("Adios"))
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, "alice", first.SenderName)
	assert.Equal(t, "CLIENT", first.SenderRole)
	assert.Equal(t, "bob", first.ReceiverName)
	assert.Equal(t, "ADMIN", first.ReceiverRole)
	assert.Equal(t, "Hola", first.Message)
}

func TestMessageServiceErrors(t *testing.T) {
	repo := &memRepository{}
	svc := NewMessageService(repo)

	_, err := svc.Create(context.Background(), alicePayload(""))
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Equal(t, "InvalidPayload", ErrorKind(err))

	repo.createErr = errors.New("connection refused")
	_, err = svc.Create(context.Background(), alicePayload("Hola"))
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, "PersistenceError", ErrorKind(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "NotJoined", ErrorKind(ErrNotJoined))
	assert.Equal(t, "PersistenceError", ErrorKind(errors.New("anything else")))
}
