package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"rental/shared/cache"
	"rental/shared/constant"
	"rental/shared/dto"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins the prefix and parts with ":".
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a stable key from the paging parameters and the rendered filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	encodedArgs, err := json.Marshal(args)
	if err != nil {
		encodedArgs = []byte(fmt.Sprintf("%v", args))
	}

	raw := fmt.Sprintf("%d|%d|%s|%s|%s|%s", params.Page, params.Limit, params.SortBy, params.SortDir, where, encodedArgs)
	sum := sha256.Sum256([]byte(raw))

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:8]))
}

// InvalidateCaches removes every key under prefix. Failures are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	pattern := BuildCacheKey(prefix, constant.Wildcard)

	if err := redisCache.Clear(ctx, pattern); err != nil {
		log.Error().Err(err).Str("pattern", pattern).Msg("failed to invalidate caches")
	}
}

// initialGeneration stands in for a generation key that was never bumped or has expired.
const initialGeneration = "0"

// CacheGeneration reads the stamp that cache keys under scope are suffixed with. ok is false
// when the stamp cannot be read; callers then skip the cache entirely.
func CacheGeneration(ctx context.Context, redisCache cache.RedisCache, scope string) (stamp string, ok bool) {
	err := redisCache.Get(ctx, scope, &stamp)

	switch {
	case err == nil && stamp != "":
		return stamp, true
	case err == nil, errors.Is(err, cache.Nil):
		return initialGeneration, true
	default:
		log.Warn().Err(err).Str("scope", scope).Msg("failed to read cache generation, bypassing cache")

		return "", false
	}
}

// BumpCacheGeneration gives every scope a fresh stamp. Entries filled under an older stamp,
// including ones written by readers that raced the bump, are never read again and age out.
// The stamp outlives the entries it guards so an expired stamp cannot revive them.
func BumpCacheGeneration(ctx context.Context, redisCache cache.RedisCache, ttl int, scopes ...string) {
	stamp := uuid.NewString()

	for _, scope := range scopes {
		if err := redisCache.Save(ctx, scope, stamp, 2*ttl); err != nil {
			log.Error().Err(err).Str("scope", scope).Msg("failed to bump cache generation")
		}
	}
}
