package dungeon

//go:generate mockgen -destination=mock/mock_service.go -package=mockdungeon -source=service.go

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/mossvale/delve-bot-discord/internal/combat"
	"github.com/mossvale/delve-bot-discord/internal/content"
	"github.com/mossvale/delve-bot-discord/internal/dice"
	domcombat "github.com/mossvale/delve-bot-discord/internal/domain/combat"
	domcontent "github.com/mossvale/delve-bot-discord/internal/domain/content"
	"github.com/mossvale/delve-bot-discord/internal/domain/exploration"
	"github.com/mossvale/delve-bot-discord/internal/dungeon"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
	"github.com/mossvale/delve-bot-discord/internal/repositories/metadata"
	"github.com/mossvale/delve-bot-discord/internal/services/encounter"
	"github.com/mossvale/delve-bot-discord/internal/services/loot"
	"github.com/mossvale/delve-bot-discord/internal/session"
)

// StartInput describes a dungeon run request
type StartInput struct {
	GuildID    string
	ChannelID  string
	ThemeKey   string
	Seed       int64
	Difficulty string
	RoomCount  int
	PartyIDs   []string
}

// RoomView is what the presentation layer renders after a move
type RoomView struct {
	Room      *exploration.Room
	Corridor  string
	FinalRoom bool
	Combat    *domcombat.State
}

// TrapOutcome reports one trap springing on the party
type TrapOutcome struct {
	Trap    *domcontent.Trap
	Results map[string]*combat.SavingThrowResult
	Damage  map[string]int
}

// TreasureOutcome reports a claimed treasure room
type TreasureOutcome struct {
	Allocation *loot.Allocation
}

// Service orchestrates dungeon runs: generation, room flow, traps, treasure
type Service interface {
	// Start generates a dungeon and opens a session for the channel
	Start(ctx context.Context, input *StartInput) (*exploration.DungeonSession, error)

	// Session returns the channel's live session
	Session(key session.Key) (*exploration.DungeonSession, error)

	// EnterCombat starts combat against the current room's monsters
	EnterCombat(key session.Key, party []*domcombat.CombatantState) (*domcombat.State, error)

	// Advance moves the party to the next room
	Advance(key session.Key) (*RoomView, error)

	// AttemptStealth rolls the party's best DEX against the room's danger
	AttemptStealth(key session.Key, dexBonus int) (bool, error)

	// TriggerTrap springs a trap on the party, rolling each member's save
	TriggerTrap(key session.Key, trapKey string, saveBonuses map[string]int) (*TrapOutcome, error)

	// DisarmTrap marks a discovered trap disarmed and pays the reward
	DisarmTrap(key session.Key, trapKey string) (int, error)

	// ClaimTreasure distributes the current room's loot to the party
	ClaimTreasure(key session.Key, order []string) (*TreasureOutcome, error)

	// Complete tears down the run and reports the session's tallies
	Complete(key session.Key) (*exploration.DungeonSession, error)

	// Abandon tears down the run without rewards
	Abandon(key session.Key) bool

	// SaveRun stores the active run's recipe under a name for replay
	SaveRun(ctx context.Context, key session.Key, name string) error

	// StartSaved begins a new run from a stored recipe
	StartSaved(ctx context.Context, key session.Key, name string, partyIDs []string) (*exploration.DungeonSession, error)

	// ListSaved returns the guild's stored recipe names
	ListSaved(ctx context.Context, guildID string) ([]string, error)
}

type service struct {
	library     *content.Library
	sessions    *session.Manager[*exploration.DungeonSession]
	encounters  encounter.Service
	lootService loot.Service
	store       metadata.Store
	roller      dice.Roller
	log         *zap.Logger
	random      *rand.Rand
}

// ServiceConfig holds configuration for the dungeon service
type ServiceConfig struct {
	Library          *content.Library
	Sessions         *session.Manager[*exploration.DungeonSession]
	EncounterService encounter.Service
	LootService      loot.Service
	MetadataStore    metadata.Store
	Roller           dice.Roller
	Logger           *zap.Logger
}

// NewService creates a new dungeon service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("config is required")
	}
	if cfg.Library == nil {
		panic("content library is required")
	}
	if cfg.Sessions == nil {
		panic("session manager is required")
	}
	if cfg.EncounterService == nil {
		panic("encounter service is required")
	}
	if cfg.LootService == nil {
		panic("loot service is required")
	}
	if cfg.Roller == nil {
		panic("dice roller is required")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		library:     cfg.Library,
		sessions:    cfg.Sessions,
		encounters:  cfg.EncounterService,
		lootService: cfg.LootService,
		store:       cfg.MetadataStore,
		roller:      cfg.Roller,
		log:         log,
		random:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start generates the dungeon, opens the session, and records the run's
// recipe in the guild's metadata so it can be replayed.
func (s *service) Start(ctx context.Context, input *StartInput) (*exploration.DungeonSession, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	if input.ChannelID == "" {
		return nil, dnderr.InvalidArgument("channel id is required")
	}

	key := session.Key{GuildID: input.GuildID, ChannelID: input.ChannelID}
	if _, exists := s.sessions.Get(key); exists {
		return nil, dnderr.AlreadyExists("a dungeon run is already active in this channel")
	}

	theme, err := s.library.Themes.Get(input.ThemeKey)
	if err != nil {
		return nil, err
	}

	seed := input.Seed
	if seed == 0 {
		seed = s.random.Int63()
	}

	generated, err := dungeon.Generate(theme, seed, input.Difficulty, input.RoomCount)
	if err != nil {
		return nil, err
	}

	sess := exploration.NewDungeonSession(generated, input.GuildID, input.ChannelID)
	for _, userID := range input.PartyIDs {
		sess.PartyIDs[userID] = true
	}
	sess.EnsureRoomTraps()
	s.sessions.Set(key, sess)

	if s.store != nil && input.GuildID != "" {
		settings, getErr := s.store.GetSettings(ctx, input.GuildID)
		if getErr != nil {
			s.log.Warn("failed to load guild settings", zap.String("guild", input.GuildID), zap.Error(getErr))
			settings = &metadata.GuildSettings{}
		}
		settings.LastTheme = theme.Key
		settings.LastSeed = seed
		settings.LastDifficulty = generated.Difficulty
		if setErr := s.store.SetSettings(ctx, input.GuildID, settings); setErr != nil {
			s.log.Warn("failed to record guild settings", zap.String("guild", input.GuildID), zap.Error(setErr))
		}
	}

	s.log.Info("dungeon run started",
		zap.String("guild", input.GuildID),
		zap.String("channel", input.ChannelID),
		zap.String("theme", theme.Key),
		zap.Int64("seed", seed),
		zap.String("difficulty", generated.Difficulty),
		zap.Int("rooms", len(generated.Rooms)))
	return sess, nil
}

func (s *service) Session(key session.Key) (*exploration.DungeonSession, error) {
	sess, ok := s.sessions.Get(key)
	if !ok {
		return nil, dnderr.NotFound("no active dungeon run in this channel")
	}
	return sess, nil
}

// EnterCombat starts combat against the current room's monsters. A stealthed
// party keeps the drop on the enemy and acts before initiative is compared.
func (s *service) EnterCombat(key session.Key, party []*domcombat.CombatantState) (*domcombat.State, error) {
	var state *domcombat.State
	var combatErr error
	ok := s.sessions.Update(key, func(sess *exploration.DungeonSession) {
		room := sess.Room()
		if room.Encounter.Kind != exploration.EncounterKindCombat || len(room.Encounter.Monsters) == 0 {
			combatErr = dnderr.Conflict("there is nothing to fight here")
			return
		}
		if sess.Combat != nil && sess.Combat.Active() {
			combatErr = dnderr.Conflict("combat is already underway")
			return
		}
		state, combatErr = s.encounters.StartCombat(party, room.Encounter.Monsters)
		if combatErr != nil {
			return
		}
		sess.Combat = state
	})
	if !ok {
		return nil, dnderr.NotFound("no active dungeon run in this channel")
	}
	return state, combatErr
}

// Advance moves to the next room. Active combat blocks the move; finished
// combat is tallied and torn down on the way out.
func (s *service) Advance(key session.Key) (*RoomView, error) {
	var view *RoomView
	var moveErr error
	ok := s.sessions.Update(key, func(sess *exploration.DungeonSession) {
		if sess.Combat != nil {
			if sess.Combat.Active() {
				moveErr = dnderr.Conflict("you cannot leave while combat rages")
				return
			}
			monsters := false
			sess.MonstersDefeated += countDefeatedMonsters(sess.Combat)
			if sess.Combat.AnyMonstersAlive() {
				monsters = true
			}
			sess.Combat = nil
			if monsters {
				s.log.Debug("advancing past surviving monsters", zap.String("channel", key.ChannelID))
			}
		}
		if sess.AtFinalRoom() {
			moveErr = dnderr.Conflict("this is the final room, complete the run instead")
			return
		}

		next := sess.CurrentRoom + 1
		sess.MoveTo(next)
		sess.EnsureRoomTraps()

		corridor := ""
		for _, c := range sess.Dungeon.Corridors {
			if c.ToRoom == next {
				corridor = c.Description
				break
			}
		}
		view = &RoomView{
			Room:      sess.Room(),
			Corridor:  corridor,
			FinalRoom: sess.AtFinalRoom(),
		}
	})
	if !ok {
		return nil, dnderr.NotFound("no active dungeon run in this channel")
	}
	return view, moveErr
}

// AttemptStealth rolls the party's scout against the room's danger. Success
// sets the session's stealth flag until the next move.
func (s *service) AttemptStealth(key session.Key, dexBonus int) (bool, error) {
	var success bool
	var stealthErr error
	ok := s.sessions.Update(key, func(sess *exploration.DungeonSession) {
		dc := roomStealthDC(sess.Room())
		roll, err := combat.SavingThrow(s.roller, dexBonus, dc, combat.Neutral)
		if err != nil {
			stealthErr = err
			return
		}
		success = roll.Success
		sess.Stealthed = success
	})
	if !ok {
		return false, dnderr.NotFound("no active dungeon run in this channel")
	}
	return success, stealthErr
}

// TriggerTrap springs a trap: each member saves, taking half damage on a
// success. The trap ends up sprung either way.
func (s *service) TriggerTrap(key session.Key, trapKey string, saveBonuses map[string]int) (*TrapOutcome, error) {
	var outcome *TrapOutcome
	var trapErr error
	ok := s.sessions.Update(key, func(sess *exploration.DungeonSession) {
		sess.EnsureRoomTraps()
		trap := sess.TrapCatalog[sess.Room().ID][trapKey]
		if trap == nil {
			trapErr = dnderr.NotFoundf("no trap '%s' in this room", trapKey)
			return
		}
		status := sess.TrapStatusFor(trapKey)
		if status == exploration.TrapStatusDisarmed || status == exploration.TrapStatusSprung {
			trapErr = dnderr.Conflict("that trap is already spent")
			return
		}

		outcome = &TrapOutcome{
			Trap:    trap,
			Results: make(map[string]*combat.SavingThrowResult, len(saveBonuses)),
			Damage:  make(map[string]int, len(saveBonuses)),
		}
		for userID, bonus := range saveBonuses {
			save, err := combat.SavingThrow(s.roller, bonus, trap.SaveDC, combat.Neutral)
			if err != nil {
				trapErr = err
				return
			}
			amount := 0
			if trap.Damage != "" {
				roll, rollErr := dice.RollExpression(s.roller, trap.Damage)
				if rollErr != nil {
					trapErr = rollErr
					return
				}
				amount = roll.Total
				if save.Success {
					amount /= 2
				}
			}
			outcome.Results[userID] = save
			outcome.Damage[userID] = amount
		}

		sess.SetTrapStatus(trapKey, exploration.TrapStatusSprung)
		sess.TrapsTriggered++
	})
	if !ok {
		return nil, dnderr.NotFound("no active dungeon run in this channel")
	}
	return outcome, trapErr
}

// DisarmTrap marks the trap disarmed and returns the gold reward
func (s *service) DisarmTrap(key session.Key, trapKey string) (int, error) {
	var reward int
	var disarmErr error
	ok := s.sessions.Update(key, func(sess *exploration.DungeonSession) {
		sess.EnsureRoomTraps()
		trap := sess.TrapCatalog[sess.Room().ID][trapKey]
		if trap == nil {
			disarmErr = dnderr.NotFoundf("no trap '%s' in this room", trapKey)
			return
		}
		status := sess.TrapStatusFor(trapKey)
		if status == exploration.TrapStatusDisarmed || status == exploration.TrapStatusSprung {
			disarmErr = dnderr.Conflict("that trap is already spent")
			return
		}
		sess.SetTrapStatus(trapKey, exploration.TrapStatusDisarmed)
		sess.TrapsDisarmed++
		reward = s.lootService.TrapReward(trap)
		sess.TreasureGold += reward
	})
	if !ok {
		return 0, dnderr.NotFound("no active dungeon run in this channel")
	}
	return reward, disarmErr
}

// ClaimTreasure distributes the room's loot round-robin across the party
func (s *service) ClaimTreasure(key session.Key, order []string) (*TreasureOutcome, error) {
	var outcome *TreasureOutcome
	var claimErr error
	ok := s.sessions.Update(key, func(sess *exploration.DungeonSession) {
		room := sess.Room()
		if room.Encounter.Kind != exploration.EncounterKindTreasure || len(room.Encounter.Loot) == 0 {
			claimErr = dnderr.NotFound("there is no treasure to claim here")
			return
		}
		if sess.LootClaimed[room.ID] {
			claimErr = dnderr.Conflict("this room has already been looted")
			return
		}

		allocation, err := s.lootService.AllocateLoot(room.Encounter.Loot, order, sess.LootCursor)
		if err != nil {
			claimErr = err
			return
		}
		sess.LootClaimed[room.ID] = true
		sess.LootCursor = allocation.NextCursor
		sess.TreasureItems += len(room.Encounter.Loot)
		for _, share := range allocation.Shares {
			sess.TreasureGold += share.Gold
		}
		outcome = &TreasureOutcome{Allocation: allocation}
	})
	if !ok {
		return nil, dnderr.NotFound("no active dungeon run in this channel")
	}
	return outcome, claimErr
}

// Complete tears the session down and returns it for the final report
func (s *service) Complete(key session.Key) (*exploration.DungeonSession, error) {
	sess, ok := s.sessions.Pop(key)
	if !ok {
		return nil, dnderr.NotFound("no active dungeon run in this channel")
	}
	if sess.Combat != nil {
		sess.MonstersDefeated += countDefeatedMonsters(sess.Combat)
		sess.Combat = nil
	}
	s.log.Info("dungeon run completed",
		zap.String("guild", sess.GuildID),
		zap.String("channel", sess.ChannelID),
		zap.Int("rooms_visited", len(sess.Breadcrumbs)),
		zap.Int("monsters_defeated", sess.MonstersDefeated),
		zap.Duration("elapsed", time.Since(sess.StartedAt)))
	return sess, nil
}

// Abandon drops the session without ceremony
func (s *service) Abandon(key session.Key) bool {
	_, ok := s.sessions.Pop(key)
	return ok
}

// SaveRun stores the active run's generation recipe. The same theme, seed,
// difficulty, and room count rebuild the identical dungeon later.
func (s *service) SaveRun(ctx context.Context, key session.Key, name string) error {
	if s.store == nil {
		return dnderr.Internal("no metadata store configured")
	}
	sess, ok := s.sessions.Get(key)
	if !ok {
		return dnderr.NotFound("no active dungeon run in this channel")
	}
	return s.store.SaveDungeon(ctx, key.GuildID, &metadata.SavedDungeon{
		Name:       name,
		ThemeKey:   sess.Dungeon.ThemeKey,
		Seed:       sess.Dungeon.Seed,
		Difficulty: sess.Dungeon.Difficulty,
		RoomCount:  len(sess.Dungeon.Rooms),
	})
}

// StartSaved rebuilds a stored recipe into a fresh run
func (s *service) StartSaved(ctx context.Context, key session.Key, name string, partyIDs []string) (*exploration.DungeonSession, error) {
	if s.store == nil {
		return nil, dnderr.Internal("no metadata store configured")
	}
	saved, err := s.store.GetDungeon(ctx, key.GuildID, name)
	if err != nil {
		return nil, err
	}
	return s.Start(ctx, &StartInput{
		GuildID:    key.GuildID,
		ChannelID:  key.ChannelID,
		ThemeKey:   saved.ThemeKey,
		Seed:       saved.Seed,
		Difficulty: saved.Difficulty,
		RoomCount:  saved.RoomCount,
		PartyIDs:   partyIDs,
	})
}

// ListSaved returns the guild's stored recipe names
func (s *service) ListSaved(ctx context.Context, guildID string) ([]string, error) {
	if s.store == nil {
		return nil, dnderr.Internal("no metadata store configured")
	}
	return s.store.ListDungeons(ctx, guildID)
}

// roomStealthDC is the trap or monster-derived difficulty of sneaking
func roomStealthDC(room *exploration.Room) int {
	dc := 10
	for _, trap := range room.Encounter.Traps {
		if trap.SaveDC > dc {
			dc = trap.SaveDC
		}
	}
	for _, monster := range room.Encounter.Monsters {
		if passive := 10 + monster.AbilityModifier("WIS"); passive > dc {
			dc = passive
		}
	}
	return dc
}

func countDefeatedMonsters(state *domcombat.State) int {
	defeated := 0
	for _, combatant := range state.Order {
		if !combatant.IsPlayer && combatant.Defeated() {
			defeated++
		}
	}
	return defeated
}
