package character

//go:generate mockgen -destination=mock/mock_service.go -package=mockcharacter -source=service.go

import (
	"context"

	"github.com/mossvale/delve-bot-discord/internal/domain/character"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
	"github.com/mossvale/delve-bot-discord/internal/repositories/characters"
	"github.com/mossvale/delve-bot-discord/internal/uuid"
)

// CreateInput is the minimum needed to roll up an adventurer
type CreateInput struct {
	GuildID     string
	OwnerID     string
	Name        string
	MaxHP       int
	ArmorClass  int
	AttackBonus int
	Damage      string
	DamageType  string
	Abilities   map[string]int
}

// Service manages adventurers per guild
type Service interface {
	// Create rolls up and stores a new character for the user
	Create(ctx context.Context, input *CreateInput) (*character.Character, error)

	// Get returns the user's character in the guild
	Get(ctx context.Context, guildID, userID string) (*character.Character, error)

	// Save persists mutations made to a character
	Save(ctx context.Context, char *character.Character) error

	// Delete removes the user's character
	Delete(ctx context.Context, guildID, userID string) error

	// List returns every character in the guild keyed by owner
	List(ctx context.Context, guildID string) (map[string]*character.Character, error)

	// GrantRewards credits gold and items to a character
	GrantRewards(ctx context.Context, guildID, userID string, gold int, itemKeys []string) (*character.Character, error)
}

type service struct {
	repository    characters.Repository
	uuidGenerator uuid.Generator
}

// ServiceConfig holds configuration for the character service
type ServiceConfig struct {
	Repository    characters.Repository
	UUIDGenerator uuid.Generator
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.UUIDGenerator == nil {
		panic("uuid generator is required")
	}
	return &service{
		repository:    cfg.Repository,
		uuidGenerator: cfg.UUIDGenerator,
	}
}

func (s *service) Create(ctx context.Context, input *CreateInput) (*character.Character, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, dnderr.InvalidArgument("character name is required")
	}
	if input.GuildID == "" || input.OwnerID == "" {
		return nil, dnderr.InvalidArgument("guild and owner ids are required")
	}
	if existing, err := s.repository.Get(ctx, input.GuildID, input.OwnerID); err == nil && existing != nil {
		return nil, dnderr.AlreadyExistsf("you already have a character named %s", existing.Name)
	}

	maxHP := input.MaxHP
	if maxHP <= 0 {
		maxHP = 10
	}
	ac := input.ArmorClass
	if ac <= 0 {
		ac = 10
	}
	damage := input.Damage
	if damage == "" {
		damage = "1d6"
	}

	char := &character.Character{
		ID:          s.uuidGenerator.New(),
		GuildID:     input.GuildID,
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Level:       1,
		MaxHP:       maxHP,
		CurrentHP:   maxHP,
		ArmorClass:  ac,
		AttackBonus: input.AttackBonus,
		Damage:      damage,
		DamageType:  input.DamageType,
		Abilities:   input.Abilities,
	}
	if err := s.repository.Save(ctx, char); err != nil {
		return nil, err
	}
	return char, nil
}

func (s *service) Get(ctx context.Context, guildID, userID string) (*character.Character, error) {
	return s.repository.Get(ctx, guildID, userID)
}

func (s *service) Save(ctx context.Context, char *character.Character) error {
	return s.repository.Save(ctx, char)
}

func (s *service) Delete(ctx context.Context, guildID, userID string) error {
	return s.repository.Clear(ctx, guildID, userID)
}

func (s *service) List(ctx context.Context, guildID string) (map[string]*character.Character, error) {
	return s.repository.List(ctx, guildID)
}

func (s *service) GrantRewards(ctx context.Context, guildID, userID string, gold int, itemKeys []string) (*character.Character, error) {
	char, err := s.repository.Get(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	char.Gold += gold
	for _, key := range itemKeys {
		char.AddItem(key)
	}
	if err := s.repository.Save(ctx, char); err != nil {
		return nil, err
	}
	return char, nil
}
