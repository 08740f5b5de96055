package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mossvale/delve-bot-discord/internal/domain/character"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("RedisRepoConfig and Client are required")
	}
	return &redisRepository{client: cfg.Client}
}

func characterKey(guildID, userID string) string {
	return fmt.Sprintf("character:%s:%s", guildID, userID)
}

func guildIndexKey(guildID string) string {
	return fmt.Sprintf("guild:%s:characters", guildID)
}

func (r *redisRepository) Get(ctx context.Context, guildID, userID string) (*character.Character, error) {
	data, err := r.client.Get(ctx, characterKey(guildID, userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, dnderr.NotFoundf("no character for user %s", userID)
		}
		return nil, dnderr.Wrap(err, "failed to get character")
	}

	var char character.Character
	if err := json.Unmarshal(data, &char); err != nil {
		return nil, dnderr.Wrap(err, "failed to unmarshal character")
	}
	return &char, nil
}

func (r *redisRepository) Save(ctx context.Context, char *character.Character) error {
	if char == nil {
		return dnderr.InvalidArgument("character is required")
	}
	if char.GuildID == "" || char.OwnerID == "" {
		return dnderr.InvalidArgument("character requires guild and owner ids")
	}
	char.UpdatedAt = time.Now()
	if char.CreatedAt.IsZero() {
		char.CreatedAt = char.UpdatedAt
	}

	data, err := json.Marshal(char)
	if err != nil {
		return dnderr.Wrap(err, "failed to marshal character")
	}

	if err := r.client.Set(ctx, characterKey(char.GuildID, char.OwnerID), string(data), 0).Err(); err != nil {
		return dnderr.Wrap(err, "failed to save character")
	}
	if err := r.client.SAdd(ctx, guildIndexKey(char.GuildID), char.OwnerID).Err(); err != nil {
		return dnderr.Wrap(err, "failed to index character")
	}
	return nil
}

func (r *redisRepository) Clear(ctx context.Context, guildID, userID string) error {
	if err := r.client.Del(ctx, characterKey(guildID, userID)).Err(); err != nil {
		return dnderr.Wrap(err, "failed to clear character")
	}
	if err := r.client.SRem(ctx, guildIndexKey(guildID), userID).Err(); err != nil {
		return dnderr.Wrap(err, "failed to deindex character")
	}
	return nil
}

func (r *redisRepository) List(ctx context.Context, guildID string) (map[string]*character.Character, error) {
	userIDs, err := r.client.SMembers(ctx, guildIndexKey(guildID)).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list characters")
	}

	out := make(map[string]*character.Character, len(userIDs))
	for _, userID := range userIDs {
		char, err := r.Get(ctx, guildID, userID)
		if err != nil {
			if dnderr.IsNotFound(err) {
				// Stale index entry, skip it.
				continue
			}
			return nil, err
		}
		out[userID] = char
	}
	return out, nil
}
