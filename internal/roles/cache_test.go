package roles

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_, ver, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.EqualValues(t, 1, ver)

	roles := []CustomRole{{ID: uuid.New(), Name: "curator", DisplayName: "Curator", Permissions: []string{"view_content"}, InheritFrom: "fan"}}
	require.NoError(t, cache.Store(ctx, ver, roles))
	require.True(t, mr.Exists("rbac:catalog:custom:1"))
	require.Equal(t, time.Minute, mr.TTL("rbac:catalog:custom:1"))

	got, _, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, roles[0].ID, got[0].ID)
	require.Equal(t, "fan", got[0].InheritFrom)
}

func TestCacheStoresEmptyListAsHit(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, 1, nil))
	got, _, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, got)
}

func TestCacheBumpInvalidates(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	ver, err := cache.Version(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Store(ctx, ver, []CustomRole{{Name: "curator"}}))
	require.NoError(t, cache.Bump(ctx))

	ver, err = cache.Version(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, ver)

	_, _, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	// The previous version stays until its TTL expires.
	require.True(t, mr.Exists("rbac:catalog:custom:1"))
}

func TestCacheBumpPublishesVersion(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	sub := cache.client.Subscribe(ctx, bumpChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, "1", msg.Payload)
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, 1, []CustomRole{{Name: "x"}}))
	require.NoError(t, cache.Bump(ctx))
	_, _, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCacheWatchReceivesBumps(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	versions := make(chan int64, 1)
	done := make(chan error, 1)
	go func() {
		done <- cache.Watch(ctx, func(v int64) { versions <- v })
	}()

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(bumpChannel)[bumpChannel] == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, cache.Bump(ctx))
	select {
	case v := <-versions:
		require.Equal(t, int64(1), v)
	case <-time.After(time.Second):
		t.Fatal("bump was not delivered")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestCacheStoreUnderSupersededVersionIsNotServed(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_, ver, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// A mutation commits and bumps while the miss is being refilled.
	require.NoError(t, cache.Bump(ctx))
	require.NoError(t, cache.Store(ctx, ver, []CustomRole{{Name: "stale"}}))

	require.True(t, mr.Exists("rbac:catalog:custom:1"))
	require.False(t, mr.Exists("rbac:catalog:custom:2"))
	_, current, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.EqualValues(t, 2, current)
}
