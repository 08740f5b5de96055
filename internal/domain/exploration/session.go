package exploration

import (
	"time"

	"github.com/mossvale/delve-bot-discord/internal/domain/combat"
	"github.com/mossvale/delve-bot-discord/internal/domain/content"
)

// TrapStatus tracks a trap's lifecycle inside a visited room
type TrapStatus string

const (
	TrapStatusHidden     TrapStatus = "hidden"
	TrapStatusDiscovered TrapStatus = "discovered"
	TrapStatusDisarmed   TrapStatus = "disarmed"
	TrapStatusSprung     TrapStatus = "sprung"
)

// DungeonSession is the mutable state of one active dungeon crawl, keyed by
// channel. It is only ever touched by the task processing the session's
// current action, under the session manager's lock.
type DungeonSession struct {
	Dungeon     *Dungeon
	GuildID     string
	ChannelID   string
	CurrentRoom int
	PartyIDs    map[string]bool
	Breadcrumbs []int
	Stealthed   bool
	Combat      *combat.State

	// Per-room trap bookkeeping, keyed by room id then trap key.
	TrapStates  map[int]map[string]TrapStatus
	TrapCatalog map[int]map[string]*content.Trap
	LootClaimed map[int]bool
	LootCursor  int

	StartedAt        time.Time
	MonstersDefeated int
	TrapsDisarmed    int
	TrapsTriggered   int
	TreasureItems    int
	TreasureGold     int
}

// NewDungeonSession starts a session at the dungeon entrance
func NewDungeonSession(dungeon *Dungeon, guildID, channelID string) *DungeonSession {
	return &DungeonSession{
		Dungeon:     dungeon,
		GuildID:     guildID,
		ChannelID:   channelID,
		PartyIDs:    make(map[string]bool),
		Breadcrumbs: []int{0},
		TrapStates:  make(map[int]map[string]TrapStatus),
		TrapCatalog: make(map[int]map[string]*content.Trap),
		LootClaimed: make(map[int]bool),
		StartedAt:   time.Now().UTC(),
	}
}

// Room returns the current room
func (s *DungeonSession) Room() *Room {
	return &s.Dungeon.Rooms[s.CurrentRoom]
}

// AtFinalRoom reports whether the party is in the last room
func (s *DungeonSession) AtFinalRoom() bool {
	return s.CurrentRoom >= len(s.Dungeon.Rooms)-1
}

// EnsureRoomTraps seeds trap state for the current room on first entry
func (s *DungeonSession) EnsureRoomTraps() {
	room := s.Room()
	if _, seeded := s.TrapStates[room.ID]; seeded {
		return
	}
	states := make(map[string]TrapStatus)
	catalog := make(map[string]*content.Trap)
	for _, trap := range room.Encounter.Traps {
		states[trap.Key] = TrapStatusHidden
		catalog[trap.Key] = trap
	}
	s.TrapStates[room.ID] = states
	s.TrapCatalog[room.ID] = catalog
}

// TrapStatusFor returns the tracked status for a trap in the current room
func (s *DungeonSession) TrapStatusFor(trapKey string) TrapStatus {
	states, ok := s.TrapStates[s.Room().ID]
	if !ok {
		return TrapStatusHidden
	}
	status, ok := states[trapKey]
	if !ok {
		return TrapStatusHidden
	}
	return status
}

// SetTrapStatus records a trap status transition in the current room
func (s *DungeonSession) SetTrapStatus(trapKey string, status TrapStatus) {
	s.EnsureRoomTraps()
	s.TrapStates[s.Room().ID][trapKey] = status
}

// MoveTo advances the session to a room and extends the breadcrumb trail
func (s *DungeonSession) MoveTo(roomID int) {
	s.CurrentRoom = roomID
	s.Breadcrumbs = append(s.Breadcrumbs, roomID)
	s.Stealthed = false
}
