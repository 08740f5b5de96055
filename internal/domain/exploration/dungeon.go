package exploration

import (
	"github.com/mossvale/delve-bot-discord/internal/domain/content"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// EncounterKind tags the variant carried by an EncounterResult
type EncounterKind string

const (
	EncounterKindCombat   EncounterKind = "combat"
	EncounterKindTrap     EncounterKind = "trap"
	EncounterKindTreasure EncounterKind = "treasure"
	EncounterKindEmpty    EncounterKind = "empty"
	EncounterKindOther    EncounterKind = "other"
)

// EncounterResult is the concrete encounter rolled for a room
type EncounterResult struct {
	Kind     EncounterKind      `json:"kind"`
	Summary  string             `json:"summary"`
	Monsters []*content.Monster `json:"monsters,omitempty"`
	Traps    []*content.Trap    `json:"traps,omitempty"`
	Loot     []*content.Item    `json:"loot,omitempty"`
}

// Room is a generated room with descriptive text and encounter details
type Room struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Encounter   EncounterResult `json:"encounter"`
	Exits       []int           `json:"exits"`
}

// Corridor links two rooms with flavor text
type Corridor struct {
	FromRoom    int    `json:"from_room"`
	ToRoom      int    `json:"to_room"`
	Description string `json:"description"`
}

// Dungeon is a generated dungeon. It is immutable once generated and keeps
// its seed so the same run can be rebuilt exactly.
type Dungeon struct {
	Name       string     `json:"name"`
	Seed       int64      `json:"seed"`
	Difficulty string     `json:"difficulty"`
	ThemeKey   string     `json:"theme_key"`
	Rooms      []Room     `json:"rooms"`
	Corridors  []Corridor `json:"corridors"`
}

// Room returns the room with the given id
func (d *Dungeon) Room(id int) (*Room, error) {
	for i := range d.Rooms {
		if d.Rooms[i].ID == id {
			return &d.Rooms[i], nil
		}
	}
	return nil, dnderr.NotFoundf("room %d not found", id)
}
