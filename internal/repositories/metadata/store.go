package metadata

//go:generate mockgen -destination=mock/mock_store.go -package=mockmetadata -source=store.go

import (
	"context"
)

// GuildSettings are the per-guild dungeon preferences that survive restarts
type GuildSettings struct {
	DefaultTheme   string `json:"default_theme,omitempty"`
	LastTheme      string `json:"last_theme,omitempty"`
	LastSeed       int64  `json:"last_seed,omitempty"`
	LastDifficulty string `json:"last_difficulty,omitempty"`
}

// SavedDungeon is a named generation recipe a guild can replay later
type SavedDungeon struct {
	Name       string `json:"name"`
	ThemeKey   string `json:"theme_key"`
	Seed       int64  `json:"seed"`
	Difficulty string `json:"difficulty"`
	RoomCount  int    `json:"room_count"`
}

// Store persists per-guild settings and saved dungeons. The backing store is
// durable and eventually consistent across restarts.
type Store interface {
	// GetSettings returns the guild's settings, zero-valued when unset
	GetSettings(ctx context.Context, guildID string) (*GuildSettings, error)

	// SetSettings stores the guild's settings
	SetSettings(ctx context.Context, guildID string, settings *GuildSettings) error

	// SaveDungeon stores a named generation recipe for the guild
	SaveDungeon(ctx context.Context, guildID string, saved *SavedDungeon) error

	// GetDungeon returns a named recipe
	GetDungeon(ctx context.Context, guildID, name string) (*SavedDungeon, error)

	// ListDungeons returns every saved recipe name for the guild
	ListDungeons(ctx context.Context, guildID string) ([]string, error)

	// DeleteDungeon removes a named recipe
	DeleteDungeon(ctx context.Context, guildID, name string) error
}
