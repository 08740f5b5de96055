package characters

//go:generate mockgen -destination=mock/mock_repository.go -package=mockcharacters -source=repository.go

import (
	"context"

	"github.com/mossvale/delve-bot-discord/internal/domain/character"
)

// Repository persists characters keyed by guild and owner
type Repository interface {
	// Get returns the user's character in the guild
	Get(ctx context.Context, guildID, userID string) (*character.Character, error)

	// Save stores the character, overwriting any existing one
	Save(ctx context.Context, char *character.Character) error

	// Clear removes the user's character in the guild
	Clear(ctx context.Context, guildID, userID string) error

	// List returns every character in the guild keyed by owner
	List(ctx context.Context, guildID string) (map[string]*character.Character, error)
}
