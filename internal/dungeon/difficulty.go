package dungeon

import (
	"strings"

	"github.com/mossvale/delve-bot-discord/internal/content"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// IntBand is an inclusive count range rolled uniformly during generation
type IntBand struct {
	Min int
	Max int
}

// Roll picks a value in the band given a uniform [0,1) sample
func (b IntBand) Roll(sample float64) int {
	if b.Max <= b.Min {
		return b.Min
	}
	return b.Min + int(sample*float64(b.Max-b.Min+1))
}

// DifficultyProfile shapes encounter synthesis for one tier
type DifficultyProfile struct {
	Tier         string
	MonsterCount IntBand
	Challenge    content.Band
	TrapCount    IntBand
	TrapDC       content.Band
	LootCount    IntBand
	LootRarity   content.Band
	LootBias     float64
}

var profiles = []DifficultyProfile{
	{
		Tier:         "easy",
		MonsterCount: IntBand{Min: 1, Max: 2},
		Challenge:    content.Band{Min: 0, Max: 0.5},
		TrapCount:    IntBand{Min: 1, Max: 1},
		TrapDC:       content.Band{Min: 8, Max: 12},
		LootCount:    IntBand{Min: 1, Max: 1},
		LootRarity:   content.Band{Min: 0, Max: 1},
		LootBias:     0.5,
	},
	{
		Tier:         "standard",
		MonsterCount: IntBand{Min: 1, Max: 3},
		Challenge:    content.Band{Min: 0.25, Max: 1},
		TrapCount:    IntBand{Min: 1, Max: 2},
		TrapDC:       content.Band{Min: 10, Max: 14},
		LootCount:    IntBand{Min: 1, Max: 2},
		LootRarity:   content.Band{Min: 0, Max: 2},
		LootBias:     1,
	},
	{
		Tier:         "hard",
		MonsterCount: IntBand{Min: 2, Max: 4},
		Challenge:    content.Band{Min: 0.5, Max: 3},
		TrapCount:    IntBand{Min: 1, Max: 2},
		TrapDC:       content.Band{Min: 12, Max: 16},
		LootCount:    IntBand{Min: 1, Max: 2},
		LootRarity:   content.Band{Min: 1, Max: 3},
		LootBias:     1.5,
	},
	{
		Tier:         "deadly",
		MonsterCount: IntBand{Min: 3, Max: 5},
		Challenge:    content.Band{Min: 2, Max: 6},
		TrapCount:    IntBand{Min: 2, Max: 3},
		TrapDC:       content.Band{Min: 14, Max: 19},
		LootCount:    IntBand{Min: 2, Max: 3},
		LootRarity:   content.Band{Min: 2, Max: 5},
		LootBias:     2,
	},
}

// Profiles returns every difficulty profile ordered from easiest to deadliest
func Profiles() []DifficultyProfile {
	out := make([]DifficultyProfile, len(profiles))
	copy(out, profiles)
	return out
}

// ProfileFor resolves a tier name to its profile
func ProfileFor(tier string) (DifficultyProfile, error) {
	normalized := strings.ToLower(strings.TrimSpace(tier))
	for _, profile := range profiles {
		if profile.Tier == normalized {
			return profile, nil
		}
	}
	return DifficultyProfile{}, dnderr.InvalidArgumentf("unknown difficulty tier '%s'", tier)
}
