package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ViBiOh/httputils/v4/pkg/hash"
	"github.com/ViBiOh/httputils/v4/pkg/redis"
)

var cacheVersion = hash.String("vibioh/majordome/1")[:8]

func cacheKey(prefix, content string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, cacheVersion, content)
}

// SaveCustomID stores the joined values under a short hash, suitable for a
// component's custom_id, with the given time-to-live.
func (s Service) SaveCustomID(ctx context.Context, redisClient redis.Client, prefix, separator string, ttl time.Duration, values ...string) (string, error) {
	content := strings.Join(values, separator)
	key := hash.String(content)
	return key, redisClient.Store(ctx, cacheKey(prefix, key), content, ttl)
}

// RestoreCustomID resolves a custom_id back to its original content. Statics
// are custom IDs that are not hashed and pass through unchanged.
func (s Service) RestoreCustomID(ctx context.Context, redisClient redis.Client, prefix, separator, customID string, statics []string) (string, error) {
	for _, static := range statics {
		if customID == static {
			return customID, nil
		}
	}

	content, err := redisClient.Load(ctx, cacheKey(prefix, customID))
	if err != nil {
		return customID, fmt.Errorf("load redis: %w", err)
	}

	return string(content), nil
}
