package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisViewCache, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisViewCache(client, time.Minute, "slika:revalidate"), mr, client
}

func TestRedisViewCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr, _ := newTestCache(t)

	_, ok, err := c.Get(ctx, HomePath, "")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, HomePath, "", []byte(`{"pins":[]}`)))
	require.NoError(t, c.Set(ctx, HomePath, "limit=5", []byte(`{"pins":[1]}`)))

	body, ok, err := c.Get(ctx, HomePath, "limit=5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"pins":[1]}`, string(body))

	assert.Equal(t, time.Minute, mr.TTL("view:/"))
}

func TestRedisViewCacheRevalidateDropsAllVariants(t *testing.T) {
	ctx := context.Background()
	c, mr, client := newTestCache(t)

	sub := client.Subscribe(ctx, "slika:revalidate")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, PinPath(7), "", []byte("a")))
	require.NoError(t, c.Set(ctx, PinPath(7), "limit=3", []byte("b")))
	require.NoError(t, c.Set(ctx, ProfilePath("alice"), "", []byte("c")))

	require.NoError(t, c.Revalidate(ctx, PinPath(7), HomePath))

	assert.False(t, mr.Exists("view:/pin/7"))
	assert.True(t, mr.Exists("view:/profile/alice"))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/pin/7", msg.Payload)
	msg, err = sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/", msg.Payload)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/pin/42", PinPath(42))
	assert.Equal(t, "/profile/alice", ProfilePath("alice"))
	assert.Equal(t, "/profile/a%2Fb", ProfilePath("a/b"))
}
