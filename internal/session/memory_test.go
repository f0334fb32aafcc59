package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	token := NewToken()

	require.NoError(t, s.Put(ctx, token, 42, time.Minute))

	userID, ok, err := s.Get(ctx, token)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), userID)
}

func TestMemoryStoreGetUnknownToken(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := s.Get(ctx, "nope")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "tok", 1, -time.Second))

	_, ok, err := s.Get(ctx, "tok")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreTouchExtends(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "tok", 1, 10*time.Millisecond))
	require.NoError(t, s.Touch(ctx, "tok", time.Minute))

	time.Sleep(20 * time.Millisecond)

	_, ok, err := s.Get(ctx, "tok")

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "tok", 1, time.Minute))
	require.NoError(t, s.Delete(ctx, "tok"))

	_, ok, err := s.Get(ctx, "tok")

	require.NoError(t, err)
	assert.False(t, ok)

	// deleting an absent token is fine
	require.NoError(t, s.Delete(ctx, "tok"))
}

func TestNewTokenUnique(t *testing.T) {
	assert.NotEqual(t, NewToken(), NewToken())
}
