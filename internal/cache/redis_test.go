package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-scheduler/internal/config"
)

type testStruct struct {
	Name string
	Age  int
}

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	expected := testStruct{Name: "Alice", Age: 30}
	err := cache.Set(AssignmentKey("member-1"), expected, time.Minute)
	require.NoError(t, err)

	var actual testStruct
	found, err := cache.Get(AssignmentKey("member-1"), &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out testStruct
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set(UpcomingSessionsKey("trainer-1"), testStruct{Name: "x"}, time.Minute))
	require.NoError(t, cache.Invalidate(UpcomingSessionsKey("trainer-1")))

	var out testStruct
	found, err := cache.Get(UpcomingSessionsKey("trainer-1"), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidateByPrefix(t *testing.T) {
	cache := setupTestCache(t)

	// страницы истории одного участника и чужой ключ
	require.NoError(t, cache.Set(PastSessionsKey("member-1", 1, 10), testStruct{Age: 1}, time.Minute))
	require.NoError(t, cache.Set(PastSessionsKey("member-1", 2, 10), testStruct{Age: 2}, time.Minute))
	require.NoError(t, cache.Set(PastSessionsKey("member-2", 1, 10), testStruct{Age: 3}, time.Minute))

	require.NoError(t, cache.InvalidateByPrefix(PastSessionsPrefix("member-1")))

	var out testStruct
	found, err := cache.Get(PastSessionsKey("member-1", 1, 10), &out)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = cache.Get(PastSessionsKey("member-1", 2, 10), &out)
	require.NoError(t, err)
	assert.False(t, found)

	// семейство другого участника не задето
	found, err = cache.Get(PastSessionsKey("member-2", 1, 10), &out)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestInvalidateByPrefixEmpty(t *testing.T) {
	cache := setupTestCache(t)
	require.NoError(t, cache.InvalidateByPrefix(PastSessionsPrefix("nobody")))
}
