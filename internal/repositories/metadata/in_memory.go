package metadata

import (
	"context"
	"sort"
	"strings"
	"sync"

	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

type inMemoryStore struct {
	mu       sync.RWMutex
	settings map[string]GuildSettings
	dungeons map[string]map[string]SavedDungeon
}

// NewInMemoryStore creates a metadata store backed by maps
func NewInMemoryStore() Store {
	return &inMemoryStore{
		settings: make(map[string]GuildSettings),
		dungeons: make(map[string]map[string]SavedDungeon),
	}
}

func (s *inMemoryStore) GetSettings(ctx context.Context, guildID string) (*GuildSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings := s.settings[guildID]
	return &settings, nil
}

func (s *inMemoryStore) SetSettings(ctx context.Context, guildID string, settings *GuildSettings) error {
	if settings == nil {
		return dnderr.InvalidArgument("settings are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[guildID] = *settings
	return nil
}

func (s *inMemoryStore) SaveDungeon(ctx context.Context, guildID string, saved *SavedDungeon) error {
	if saved == nil || strings.TrimSpace(saved.Name) == "" {
		return dnderr.InvalidArgument("saved dungeon requires a name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dungeons[guildID] == nil {
		s.dungeons[guildID] = make(map[string]SavedDungeon)
	}
	s.dungeons[guildID][strings.ToLower(saved.Name)] = *saved
	return nil
}

func (s *inMemoryStore) GetDungeon(ctx context.Context, guildID, name string) (*SavedDungeon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	saved, ok := s.dungeons[guildID][strings.ToLower(name)]
	if !ok {
		return nil, dnderr.NotFoundf("no saved dungeon named '%s'", name)
	}
	return &saved, nil
}

func (s *inMemoryStore) ListDungeons(ctx context.Context, guildID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.dungeons[guildID]))
	for name := range s.dungeons[guildID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *inMemoryStore) DeleteDungeon(ctx context.Context, guildID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dungeons[guildID], strings.ToLower(name))
	return nil
}
