package content

import (
	"math/rand"
	"sort"

	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// RoomTemplate is a generation blueprint for a single room
type RoomTemplate struct {
	Name             string         `yaml:"name"`
	Description      string         `yaml:"description"`
	EncounterWeights map[string]int `yaml:"encounter_weights"`
	Weight           int            `yaml:"weight"`
	Tags             []string       `yaml:"tags"`
}

// EncounterTable is a weighted category table used to pick an encounter kind
type EncounterTable struct {
	entries map[string]int
	keys    []string
	total   int
}

// NewEncounterTable builds a table from category weights, dropping
// non-positive entries. At least one positive weight is required.
func NewEncounterTable(entries map[string]int) (*EncounterTable, error) {
	cleaned := make(map[string]int)
	for key, weight := range entries {
		if weight > 0 {
			cleaned[key] = weight
		}
	}
	if len(cleaned) == 0 {
		return nil, dnderr.InvalidArgument("encounter table must contain at least one positive weight entry")
	}

	keys := make([]string, 0, len(cleaned))
	total := 0
	for key, weight := range cleaned {
		keys = append(keys, key)
		total += weight
	}
	// Stable key order keeps rolls reproducible for a given seed.
	sort.Strings(keys)

	return &EncounterTable{entries: cleaned, keys: keys, total: total}, nil
}

// Roll picks a category proportionally to its weight
func (t *EncounterTable) Roll(rng *rand.Rand) string {
	target := rng.Intn(t.total)
	for _, key := range t.keys {
		target -= t.entries[key]
		if target < 0 {
			return key
		}
	}
	return t.keys[len(t.keys)-1]
}

// Entries returns a copy of the table's weights
func (t *EncounterTable) Entries() map[string]int {
	copied := make(map[string]int, len(t.entries))
	for key, weight := range t.entries {
		copied[key] = weight
	}
	return copied
}

// Theme aggregates the content pools a dungeon draws from
type Theme struct {
	Key            string
	Name           string
	Description    string
	RoomTemplates  []RoomTemplate
	Monsters       []*Monster
	Traps          []*Trap
	Loot           []*Item
	EncounterTable *EncounterTable
	Aliases        []string
}

// Validate enforces the theme invariants: at least one room template and a
// non-empty encounter table.
func (t *Theme) Validate() error {
	if t.Name == "" {
		t.Name = t.Key
	}
	if len(t.RoomTemplates) == 0 {
		return dnderr.InvalidArgumentf("theme %q has no room templates", t.Key)
	}
	if t.EncounterTable == nil {
		return dnderr.InvalidArgumentf("theme %q has no encounter table", t.Key)
	}
	for i := range t.RoomTemplates {
		if t.RoomTemplates[i].Name == "" {
			t.RoomTemplates[i].Name = "Unknown Room"
		}
		if t.RoomTemplates[i].Weight < 1 {
			t.RoomTemplates[i].Weight = 1
		}
	}
	return nil
}

// RandomRoomTemplate draws a template weighted by its own weight
func (t *Theme) RandomRoomTemplate(rng *rand.Rand) RoomTemplate {
	total := 0
	for i := range t.RoomTemplates {
		total += t.RoomTemplates[i].Weight
	}
	target := rng.Intn(total)
	for i := range t.RoomTemplates {
		target -= t.RoomTemplates[i].Weight
		if target < 0 {
			return t.RoomTemplates[i]
		}
	}
	return t.RoomTemplates[len(t.RoomTemplates)-1]
}
