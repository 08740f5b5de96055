package characters

import (
	"context"
	"sync"
	"time"

	"github.com/mossvale/delve-bot-discord/internal/domain/character"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

type inMemoryRepository struct {
	mu   sync.RWMutex
	data map[string]map[string]*character.Character
}

// NewInMemoryRepository creates a character repository backed by a map,
// useful for tests and local development without Redis.
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		data: make(map[string]map[string]*character.Character),
	}
}

func (r *inMemoryRepository) Get(ctx context.Context, guildID, userID string) (*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	char, ok := r.data[guildID][userID]
	if !ok {
		return nil, dnderr.NotFoundf("no character for user %s", userID)
	}
	copied := *char
	return &copied, nil
}

func (r *inMemoryRepository) Save(ctx context.Context, char *character.Character) error {
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

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data[char.GuildID] == nil {
		r.data[char.GuildID] = make(map[string]*character.Character)
	}
	copied := *char
	r.data[char.GuildID][char.OwnerID] = &copied
	return nil
}

func (r *inMemoryRepository) Clear(ctx context.Context, guildID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data[guildID], userID)
	return nil
}

func (r *inMemoryRepository) List(ctx context.Context, guildID string) (map[string]*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*character.Character, len(r.data[guildID]))
	for userID, char := range r.data[guildID] {
		copied := *char
		out[userID] = &copied
	}
	return out, nil
}
