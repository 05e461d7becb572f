package cache

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_WithoutClientDegrades(t *testing.T) {
	r := NewRedisFromClient(nil, nil)
	ctx := context.Background()

	assert.False(t, r.Available())
	assert.Error(t, r.Ping(ctx))

	var out map[string]string
	found, err := r.GetJSON(ctx, "roles:list", &out)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, r.SetJSON(ctx, "roles:list", []string{"a"}, time.Minute))
	assert.NoError(t, r.Delete(ctx, "roles:list"))

	acquired, err := r.SetIfNotExists(ctx, "readiness:lock:u:r", "token", time.Second)
	assert.NoError(t, err)
	assert.True(t, acquired)
	assert.NoError(t, r.ReleaseIfOwner(ctx, "readiness:lock:u:r", "token"))
	assert.NoError(t, r.Close())
}

func TestRedis_UnreachableServerWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := NewRedisFromClient(client, log.New(&buf, "", 0))
	defer r.Close()
	ctx := context.Background()

	var out string
	_, err := r.GetJSON(ctx, "k", &out)
	assert.Error(t, err)

	acquired, err := r.SetIfNotExists(ctx, "readiness:lock:u:r", "token", time.Second)
	assert.Error(t, err)
	assert.True(t, acquired)

	assert.Equal(t, 1, strings.Count(buf.String(), "[Cache] Redis error"))
}

func TestRedis_LockAndJSONRoundTrip(t *testing.T) {
	addr := os.Getenv("ROLEREADY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ROLEREADY_TEST_REDIS_ADDR not set")
	}
	r := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: addr}), nil)
	defer r.Close()
	ctx := context.Background()
	require.NoError(t, r.Ping(ctx))

	key := "readiness:lock:test:" + uuid.NewString()
	defer r.Delete(ctx, key)

	ok, err := r.SetIfNotExists(ctx, key, "first", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.SetIfNotExists(ctx, key, "second", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.ReleaseIfOwner(ctx, key, "second"))
	ok, err = r.SetIfNotExists(ctx, key, "third", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "lock held by another token must survive release")

	require.NoError(t, r.ReleaseIfOwner(ctx, key, "first"))
	ok, err = r.SetIfNotExists(ctx, key, "third", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	cacheKey := "roles:test:" + uuid.NewString()
	defer r.Delete(ctx, cacheKey)
	require.NoError(t, r.SetJSON(ctx, cacheKey, map[string]int{"weight": 40}, time.Minute))
	var got map[string]int
	found, err := r.GetJSON(ctx, cacheKey, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 40, got["weight"])
}
