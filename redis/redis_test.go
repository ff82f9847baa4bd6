package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	schedRedis "github.com/alexdunne/not-so-smart-cal/scheduler/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestSessionStore(t *testing.T) {
	mr, client := newClient(t)
	store := schedRedis.NewSessionStore(client, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, time.Hour, mr.TTL("sessions:"+token))

	userID, err := store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, store.Delete(ctx, token))
	_, err = store.Lookup(ctx, token)
	assert.True(t, errors.Is(err, scheduler.ErrUnauthorized))
}

func TestSessionStoreExpiry(t *testing.T) {
	mr, client := newClient(t)
	store := schedRedis.NewSessionStore(client, time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Lookup(ctx, token)
	assert.True(t, errors.Is(err, scheduler.ErrUnauthorized))
}

func TestSessionStoreLookupSlidesExpiry(t *testing.T) {
	mr, client := newClient(t)
	store := schedRedis.NewSessionStore(client, time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	mr.FastForward(40 * time.Second)
	_, err = store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("sessions:"+token))

	mr.FastForward(40 * time.Second)
	userID, err := store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSessionStoreLookupUnavailable(t *testing.T) {
	mr, client := newClient(t)
	store := schedRedis.NewSessionStore(client, time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	mr.SetError("LOADING server is loading")
	_, err = store.Lookup(ctx, token)
	require.Error(t, err)
	assert.False(t, errors.Is(err, scheduler.ErrUnauthorized))
}

func TestSessionStoreEmptyToken(t *testing.T) {
	_, client := newClient(t)
	store := schedRedis.NewSessionStore(client, 0)

	_, err := store.Lookup(context.Background(), "")
	assert.True(t, errors.Is(err, scheduler.ErrUnauthorized))
}

func TestConflictStore(t *testing.T) {
	_, client := newClient(t)
	store := schedRedis.NewConflictStore(client)
	ctx := context.Background()

	_, err := store.GetConflicts(ctx, "a")
	assert.True(t, errors.Is(err, scheduler.ErrNotFound))

	require.NoError(t, store.SetConflicts(ctx, "a", []string{"b", "c"}))
	require.NoError(t, store.SetConflicts(ctx, "b", []string{"a"}))

	ids, err := store.GetConflicts(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids)

	require.NoError(t, store.SetConflicts(ctx, "a", nil))
	_, err = store.GetConflicts(ctx, "a")
	assert.True(t, errors.Is(err, scheduler.ErrNotFound))

	require.NoError(t, store.ClearConflicts(ctx, "b", "missing"))
	_, err = store.GetConflicts(ctx, "b")
	assert.True(t, errors.Is(err, scheduler.ErrNotFound))

	assert.NoError(t, store.ClearConflicts(ctx))
}
