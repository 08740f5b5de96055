package services

import (
	"go.uber.org/zap"

	"github.com/mossvale/delve-bot-discord/internal/config"
	"github.com/mossvale/delve-bot-discord/internal/content"
	"github.com/mossvale/delve-bot-discord/internal/dice"
	"github.com/mossvale/delve-bot-discord/internal/domain/exploration"
	"github.com/mossvale/delve-bot-discord/internal/repositories/characters"
	"github.com/mossvale/delve-bot-discord/internal/repositories/metadata"
	characterService "github.com/mossvale/delve-bot-discord/internal/services/character"
	dungeonService "github.com/mossvale/delve-bot-discord/internal/services/dungeon"
	encounterService "github.com/mossvale/delve-bot-discord/internal/services/encounter"
	lootService "github.com/mossvale/delve-bot-discord/internal/services/loot"
	partyService "github.com/mossvale/delve-bot-discord/internal/services/party"
	"github.com/mossvale/delve-bot-discord/internal/session"
	"github.com/mossvale/delve-bot-discord/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	CharacterService characterService.Service
	EncounterService encounterService.Service
	LootService      lootService.Service
	PartyService     partyService.Service
	DungeonService   dungeonService.Service
	Sessions         *session.Manager[*exploration.DungeonSession]
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Config              *config.Config
	Library             *content.Library
	CharacterRepository characters.Repository
	MetadataStore       metadata.Store
	Roller              dice.Roller
	Logger              *zap.Logger
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg == nil || cfg.Library == nil {
		panic("provider config and content library are required")
	}

	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}
	store := cfg.MetadataStore
	if store == nil {
		store = metadata.NewInMemoryStore()
	}
	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	uuidGen := uuid.NewGoogleUUIDGenerator()
	sessions := session.NewManager[*exploration.DungeonSession]()

	charSvc := characterService.NewService(&characterService.ServiceConfig{
		Repository:    charRepo,
		UUIDGenerator: uuidGen,
	})

	encounterSvc := encounterService.NewService(&encounterService.ServiceConfig{
		Roller:        roller,
		UUIDGenerator: uuidGen,
		Logger:        log.Named("encounter"),
	})

	lootSvc := lootService.NewService()

	partyCfg := &partyService.ServiceConfig{}
	if cfg.Config != nil {
		partyCfg.PartySize = cfg.Config.Session.PartySize
		partyCfg.VoteTTL = cfg.Config.Session.VoteTTL
	}
	partySvc := partyService.NewService(partyCfg)

	dungeonSvc := dungeonService.NewService(&dungeonService.ServiceConfig{
		Library:          cfg.Library,
		Sessions:         sessions,
		EncounterService: encounterSvc,
		LootService:      lootSvc,
		MetadataStore:    store,
		Roller:           roller,
		Logger:           log.Named("dungeon"),
	})

	return &Provider{
		CharacterService: charSvc,
		EncounterService: encounterSvc,
		LootService:      lootSvc,
		PartyService:     partySvc,
		DungeonService:   dungeonSvc,
		Sessions:         sessions,
	}
}
