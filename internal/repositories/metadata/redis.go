package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// RedisStoreConfig holds configuration for the Redis store
type RedisStoreConfig struct {
	Client redis.UniversalClient
}

type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a new Redis-backed metadata store
func NewRedisStore(cfg *RedisStoreConfig) Store {
	if cfg == nil || cfg.Client == nil {
		panic("RedisStoreConfig and Client are required")
	}
	return &redisStore{client: cfg.Client}
}

func settingsKey(guildID string) string {
	return fmt.Sprintf("guild:%s:settings", guildID)
}

func dungeonsKey(guildID string) string {
	return fmt.Sprintf("guild:%s:saved_dungeons", guildID)
}

func (s *redisStore) GetSettings(ctx context.Context, guildID string) (*GuildSettings, error) {
	data, err := s.client.Get(ctx, settingsKey(guildID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &GuildSettings{}, nil
		}
		return nil, dnderr.Wrap(err, "failed to get guild settings")
	}

	var settings GuildSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, dnderr.Wrap(err, "failed to unmarshal guild settings")
	}
	return &settings, nil
}

func (s *redisStore) SetSettings(ctx context.Context, guildID string, settings *GuildSettings) error {
	if settings == nil {
		return dnderr.InvalidArgument("settings are required")
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return dnderr.Wrap(err, "failed to marshal guild settings")
	}
	if err := s.client.Set(ctx, settingsKey(guildID), string(data), 0).Err(); err != nil {
		return dnderr.Wrap(err, "failed to set guild settings")
	}
	return nil
}

func (s *redisStore) SaveDungeon(ctx context.Context, guildID string, saved *SavedDungeon) error {
	if saved == nil || strings.TrimSpace(saved.Name) == "" {
		return dnderr.InvalidArgument("saved dungeon requires a name")
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return dnderr.Wrap(err, "failed to marshal saved dungeon")
	}
	if err := s.client.HSet(ctx, dungeonsKey(guildID), strings.ToLower(saved.Name), string(data)).Err(); err != nil {
		return dnderr.Wrap(err, "failed to save dungeon")
	}
	return nil
}

func (s *redisStore) GetDungeon(ctx context.Context, guildID, name string) (*SavedDungeon, error) {
	data, err := s.client.HGet(ctx, dungeonsKey(guildID), strings.ToLower(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, dnderr.NotFoundf("no saved dungeon named '%s'", name)
		}
		return nil, dnderr.Wrap(err, "failed to get saved dungeon")
	}

	var saved SavedDungeon
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, dnderr.Wrap(err, "failed to unmarshal saved dungeon")
	}
	return &saved, nil
}

func (s *redisStore) ListDungeons(ctx context.Context, guildID string) ([]string, error) {
	names, err := s.client.HKeys(ctx, dungeonsKey(guildID)).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list saved dungeons")
	}
	sort.Strings(names)
	return names, nil
}

func (s *redisStore) DeleteDungeon(ctx context.Context, guildID, name string) error {
	if err := s.client.HDel(ctx, dungeonsKey(guildID), strings.ToLower(name)).Err(); err != nil {
		return dnderr.Wrap(err, "failed to delete saved dungeon")
	}
	return nil
}
