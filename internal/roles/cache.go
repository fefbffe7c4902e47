package roles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheVersionKey = "rbac:catalog:version"
	cacheKeyPrefix  = "rbac:catalog:custom"
	bumpChannel     = "rbac.catalog.bump"
)

// Cache stores custom role snapshots in Redis under a versioned key.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, cacheVersionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func versionKey(ver int64) string {
	return fmt.Sprintf("%s:%d", cacheKeyPrefix, ver)
}

// Load returns the cached custom roles and the version they were read at.
// The boolean is false on a miss. Callers refilling a miss pass the returned
// version to Store so a concurrent Bump is not overwritten with stale data.
func (c *Cache) Load(ctx context.Context) ([]CustomRole, int64, bool, error) {
	if c == nil || c.client == nil {
		return nil, 0, false, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	payload, err := c.client.Get(ctx, versionKey(ver)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ver, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	var roles []CustomRole
	if err := json.Unmarshal(payload, &roles); err != nil {
		return nil, ver, false, err
	}
	return roles, ver, true, nil
}

// Store caches roles under version. Data read before a Bump lands under the
// superseded version and is never served.
func (c *Cache) Store(ctx context.Context, version int64, roles []CustomRole) error {
	if c == nil || c.client == nil {
		return nil
	}
	if roles == nil {
		roles = []CustomRole{}
	}
	raw, err := json.Marshal(roles)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, versionKey(version), raw, c.ttl).Err()
}

// Bump invalidates cached snapshots by incrementing the version and
// publishing the new version for other instances.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err()
}

// Watch calls fn with every version published by Bump until ctx is done.
func (c *Cache) Watch(ctx context.Context, fn func(version int64)) error {
	if c == nil || c.client == nil {
		return nil
	}
	sub := c.client.Subscribe(ctx, bumpChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("roles cache: subscribe: %w", err)
	}
	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			ver, err := strconv.ParseInt(msg.Payload, 10, 64)
			if err != nil {
				continue
			}
			fn(ver)
		}
	}
}
