package majordome

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ViBiOh/httputils/v4/pkg/redis"
	"github.com/ViBiOh/majordome/pkg/discord"
)

const (
	storePrefix    = "approval"
	storeSeparator = "|"
)

// CustomIDStore persists approval actions behind short component custom IDs,
// in redis with the approval timeout as time-to-live.
type CustomIDStore struct {
	discord discord.Service
	redis   redis.Client
}

// NewCustomIDStore creates a redis-backed store
func NewCustomIDStore(discordService discord.Service, redisClient redis.Client) CustomIDStore {
	return CustomIDStore{
		discord: discordService,
		redis:   redisClient,
	}
}

func (s CustomIDStore) Save(ctx context.Context, action, id string, ttl time.Duration) (string, error) {
	return s.discord.SaveCustomID(ctx, s.redis, storePrefix, storeSeparator, ttl, action, id)
}

func (s CustomIDStore) Restore(ctx context.Context, customID string) (string, string, error) {
	content, err := s.discord.RestoreCustomID(ctx, s.redis, storePrefix, storeSeparator, customID, nil)
	if err != nil {
		return "", "", fmt.Errorf("restore custom id: %w", err)
	}

	action, id, ok := strings.Cut(content, storeSeparator)
	if !ok {
		return "", "", errors.New("malformed custom id content")
	}

	return action, id, nil
}
