package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryJoinLookupLeave(t *testing.T) {
	r := NewRegistry()
	ch := &recordingChannel{}

	_, ok := r.Lookup("alice")
	assert.False(t, ok)

	r.Join("alice", "CLIENT", ch)
	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, ch, got)
	role, _ := r.Role("alice")
	assert.Equal(t, "CLIENT", role)

	r.Leave(ch)
	_, ok = r.Lookup("alice")
	assert.False(t, ok)

	// 重複離開不會出錯
	r.Leave(ch)
	r.Leave(&recordingChannel{})
	assert.Equal(t, 0, r.Len())
}

func TestRegistryLastJoinWins(t *testing.T) {
	r := NewRegistry()
	first := &recordingChannel{}
	second := &recordingChannel{}

	r.Join("carol", "CLIENT", first)
	r.Join("carol", "CLIENT", second)

	got, ok := r.Lookup("carol")
	require.True(t, ok)
	assert.Same(t, second, got)

	// 被取代的連線斷線時，不影響新的登記
	r.Leave(first)
	got, ok = r.Lookup("carol")
	require.True(t, ok)
	assert.Same(t, second, got)

	r.Leave(second)
	_, ok = r.Lookup("carol")
	assert.False(t, ok)
}

func TestRegistryRejoinUnderNewName(t *testing.T) {
	r := NewRegistry()
	ch := &recordingChannel{}

	r.Join("alice", "CLIENT", ch)
	r.Join("alice2", "CLIENT", ch)

	_, ok := r.Lookup("alice")
	assert.False(t, ok)
	got, ok := r.Lookup("alice2")
	require.True(t, ok)
	assert.Same(t, ch, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ch := &recordingChannel{}
			name := fmt.Sprintf("user-%d", i%5)
			r.Join(name, "CLIENT", ch)
			r.Lookup(name)
			if i%2 == 0 {
				r.Leave(ch)
			}
		}(i)
	}
	wg.Wait()

	// 每個名稱最多一筆，且查得到的連線都能推送
	assert.LessOrEqual(t, r.Len(), 5)
	for i := 0; i < 5; i++ {
		if ch, ok := r.Lookup(fmt.Sprintf("user-%d", i)); ok {
			assert.NotNil(t, ch)
		}
	}
}
