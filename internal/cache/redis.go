package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"example.com/edueat/services/cafeteria/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Change event channels. Every write to orders or the menu publishes a
// compact event here; connected clients re-read state on notification.
const (
	ChannelOrders = "cafeteria:orders"
	ChannelMenu   = "cafeteria:menu"
)

// ChangeEvent is the payload published on the change channels
type ChangeEvent struct {
	Collection string    `json:"collection"`
	EntityID   uuid.UUID `json:"entity_id"`
	Action     string    `json:"action"`
	Time       time.Time `json:"time"`
}

// RedisCache provides caching and change notification using Redis
type RedisCache struct {
	client  *redis.Client
	enabled bool
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if !cfg.Enabled {
		return &RedisCache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	return &RedisCache{
		client:  client,
		enabled: true,
	}, nil
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string, value interface{}) error {
	if !c.enabled {
		return errors.New("cache is disabled")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return errors.Wrap(err, "key not found in cache")
		}
		return errors.Wrap(err, "failed to get value from Redis")
	}

	if err := json.Unmarshal(data, value); err != nil {
		return errors.Wrap(err, "failed to unmarshal cached value")
	}

	return nil
}

// Set stores a value in cache with optional expiration
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.enabled {
		return errors.New("cache is disabled")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to marshal value for caching")
	}

	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return errors.Wrap(err, "failed to set value in Redis")
	}

	return nil
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

// Publish sends a change event on the given channel. Callers treat
// publication as best-effort; a disabled cache is a no-op.
func (c *RedisCache) Publish(ctx context.Context, channel string, event ChangeEvent) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal change event")
	}

	if err := c.client.Publish(ctx, channel, data).Err(); err != nil {
		return errors.Wrap(err, "failed to publish change event")
	}

	return nil
}

// Subscribe listens on the given channels and forwards decoded change
// events to the handler until the context is cancelled.
func (c *RedisCache) Subscribe(ctx context.Context, handler func(channel string, event ChangeEvent), channels ...string) error {
	if !c.enabled {
		return errors.New("cache is disabled")
	}

	sub := c.client.Subscribe(ctx, channels...)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			handler(msg.Channel, event)
		}
	}
}

// MenuCacheKey is the cache key for the full menu catalog
func MenuCacheKey() string {
	return "menu:catalog"
}

// OrderCacheKey generates a cache key for a single order
func OrderCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("order:%s", id.String())
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if !c.enabled || c.client == nil {
		return nil
	}

	return c.client.Close()
}
