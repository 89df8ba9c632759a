package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"rental/infras/otel"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"

	// keys removed per UNLINK round trip while clearing a prefix
	clearBatchSize = 100
)

// Nil is returned, wrapped, by Get on a missing key.
var Nil = redis.Nil

type RedisCache interface {
	Save(ctx context.Context, key string, value any, duration int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Increment(ctx context.Context, key string, window int) (count int64, err error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, prefix string) error
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

// Clear removes every key matching the SCAN pattern, such as "reservation:gets:*".
func (cache *redisCache) Clear(ctx context.Context, prefix string) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Clear")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(otelCacheKeyAttribute, prefix)

	iter := cache.client.Scan(ctx, 0, prefix, clearBatchSize).Iterator()
	batch := make([]string, 0, clearBatchSize)
	removed := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		if err := cache.client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache values: %w", err)
		}

		removed += len(batch)
		batch = batch[:0]

		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())

		if len(batch) == clearBatchSize {
			if err = flush(); err != nil {
				log.Error().Err(err).Str("pattern", prefix).Msg("failed to clear cache")

				return err
			}
		}
	}

	if err = iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if err = flush(); err != nil {
		log.Error().Err(err).Str("pattern", prefix).Msg("failed to clear cache")

		return err
	}

	scope.SetAttribute("cache.removed", removed)

	return nil
}

func (cache *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	if err = cache.client.Del(ctx, key).Err(); err != nil {
		log.Error().Str("key", key).Err(err).Msg("failed to delete cache")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

// Get decodes the JSON stored under key into value. A *string receives the raw value.
// A missing key returns an error wrapping Nil.
func (cache *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Get")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	cacheValue, err := cache.client.Get(ctx, key).Result()
	if err != nil {
		scope.SetAttribute("cache.hit", false)

		if err != redis.Nil { //nolint:errorlint
			scope.TraceError(err)
		}

		return fmt.Errorf("failed to get cache value: %w", err)
	}

	scope.SetAttribute("cache.hit", true)

	if v, ok := value.(*string); ok {
		*v = cacheValue

		return nil
	}

	if err = json.Unmarshal([]byte(cacheValue), value); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal cache")

		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}

// Increment bumps a counter and returns its new value. The first increment starts a window of
// the given seconds; later ones leave the expiry alone, so the window is fixed.
func (cache *redisCache) Increment(ctx context.Context, key string, window int) (count int64, err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Increment")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	count, err = cache.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment cache value: %w", err)
	}

	if count == 1 {
		if err = cache.client.Expire(ctx, key, time.Duration(window)*time.Second).Err(); err != nil {
			return count, fmt.Errorf("failed to set counter window: %w", err)
		}
	}

	return count, nil
}

// Save stores value as JSON (strings as-is) for duration seconds.
func (cache *redisCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Save")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	var payload []byte

	switch v := value.(type) {
	case string:
		payload = []byte(v)
	default:
		if payload, err = json.Marshal(v); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to marshal cache")

			return fmt.Errorf("failed to marshal cache value: %w", err)
		}
	}

	if err = cache.client.Set(ctx, key, payload, time.Second*time.Duration(duration)).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set cache")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	log.Debug().Str("key", key).Int("ttl", duration).Msg("cache saved")

	return nil
}
