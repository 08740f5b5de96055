package dungeon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domcontent "github.com/mossvale/delve-bot-discord/internal/domain/content"
	"github.com/mossvale/delve-bot-discord/internal/dungeon"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

func testTheme(t *testing.T) *domcontent.Theme {
	t.Helper()
	table, err := domcontent.NewEncounterTable(map[string]int{
		"combat": 3, "trap": 2, "treasure": 2, "empty": 1,
	})
	require.NoError(t, err)

	theme := &domcontent.Theme{
		Key:  "crypt",
		Name: "The Crypt",
		RoomTemplates: []domcontent.RoomTemplate{
			{Name: "Ossuary", Description: "Bones everywhere.", Weight: 3},
			{Name: "Vault", Description: "Sealed stone doors.", Weight: 1},
		},
		Monsters: []*domcontent.Monster{
			{Key: "skeleton", Name: "Skeleton", Challenge: 0.25, ArmorClass: 13, HitPoints: 13, Damage: "1d6+2"},
			{Key: "ghoul", Name: "Ghoul", Challenge: 1, ArmorClass: 12, HitPoints: 22, Damage: "2d6+2"},
			{Key: "wight", Name: "Wight", Challenge: 3, ArmorClass: 14, HitPoints: 45, Damage: "1d8+2"},
		},
		Traps: []*domcontent.Trap{
			{Key: "pit", Name: "Pit", SaveDC: 10, SaveAbility: "DEX", Damage: "1d6"},
			{Key: "darts", Name: "Darts", SaveDC: 14, SaveAbility: "DEX", Damage: "2d4"},
		},
		Loot: []*domcontent.Item{
			{Key: "potion", Name: "Potion", Rarity: "common"},
			{Key: "crown", Name: "Crown", Rarity: "rare"},
		},
		EncounterTable: table,
	}
	require.NoError(t, theme.Validate())
	return theme
}

func TestGenerate_Basics(t *testing.T) {
	theme := testTheme(t)

	result, err := dungeon.Generate(theme, 42, "standard", 6)
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.Seed)
	assert.Equal(t, "standard", result.Difficulty)
	assert.Equal(t, "crypt", result.ThemeKey)
	require.Len(t, result.Rooms, 6)
	require.Len(t, result.Corridors, 5)

	for i, room := range result.Rooms {
		assert.Equal(t, i, room.ID)
		assert.NotEmpty(t, room.Name)
		assert.NotEmpty(t, room.Encounter.Kind)
	}
	// Rooms link to their neighbors in both directions.
	assert.Contains(t, result.Rooms[0].Exits, 1)
	assert.Contains(t, result.Rooms[3].Exits, 2)
	assert.Contains(t, result.Rooms[3].Exits, 4)
	for i, corridor := range result.Corridors {
		assert.Equal(t, i, corridor.FromRoom)
		assert.Equal(t, i+1, corridor.ToRoom)
		assert.NotEmpty(t, corridor.Description)
	}
}

func TestGenerate_DeterministicForIdenticalArguments(t *testing.T) {
	theme := testTheme(t)

	first, err := dungeon.Generate(theme, 1234, "hard", 8)
	require.NoError(t, err)
	second, err := dungeon.Generate(theme, 1234, "hard", 8)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	theme := testTheme(t)

	first, err := dungeon.Generate(theme, 1, "standard", 10)
	require.NoError(t, err)
	second, err := dungeon.Generate(theme, 2, "standard", 10)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerate_InvalidArguments(t *testing.T) {
	theme := testTheme(t)

	_, err := dungeon.Generate(theme, 1, "standard", 0)
	require.Error(t, err)
	assert.True(t, dnderr.IsInvalidArgument(err))

	_, err = dungeon.Generate(theme, 1, "standard", -3)
	assert.Error(t, err)

	_, err = dungeon.Generate(theme, 1, "nightmare", 5)
	require.Error(t, err)
	assert.True(t, dnderr.IsInvalidArgument(err))

	_, err = dungeon.Generate(nil, 1, "standard", 5)
	assert.Error(t, err)
}

func TestGenerate_SparseThemeDegradesToEmpty(t *testing.T) {
	table, err := domcontent.NewEncounterTable(map[string]int{"combat": 1})
	require.NoError(t, err)
	theme := &domcontent.Theme{
		Key:            "bare",
		Name:           "Bare Halls",
		RoomTemplates:  []domcontent.RoomTemplate{{Name: "Hall", Weight: 1}},
		EncounterTable: table,
	}
	require.NoError(t, theme.Validate())

	result, err := dungeon.Generate(theme, 5, "easy", 4)
	require.NoError(t, err)
	for _, room := range result.Rooms {
		assert.Empty(t, room.Encounter.Monsters)
	}
}

// Mean monster challenge, trap DC, and loot rarity must not decrease as the
// tier climbs.
func TestGenerate_DifficultyMonotonicity(t *testing.T) {
	theme := testTheme(t)

	meansFor := func(tier string) (challenge, trapDC, rarity float64) {
		var challengeSum, trapSum, raritySum float64
		var monsters, traps, items int
		for seed := int64(0); seed < 30; seed++ {
			result, err := dungeon.Generate(theme, seed, tier, 10)
			require.NoError(t, err)
			for _, room := range result.Rooms {
				for _, monster := range room.Encounter.Monsters {
					challengeSum += monster.Challenge
					monsters++
				}
				for _, trap := range room.Encounter.Traps {
					trapSum += float64(trap.SaveDC)
					traps++
				}
				for _, item := range room.Encounter.Loot {
					raritySum += float64(item.RarityRank())
					items++
				}
			}
		}
		if monsters > 0 {
			challenge = challengeSum / float64(monsters)
		}
		if traps > 0 {
			trapDC = trapSum / float64(traps)
		}
		if items > 0 {
			rarity = raritySum / float64(items)
		}
		return challenge, trapDC, rarity
	}

	tiers := []string{"easy", "standard", "hard", "deadly"}
	var lastChallenge, lastDC, lastRarity float64
	for i, tier := range tiers {
		challenge, trapDC, rarity := meansFor(tier)
		if i > 0 {
			assert.GreaterOrEqual(t, challenge, lastChallenge, "mean challenge dipped at %s", tier)
			assert.GreaterOrEqual(t, trapDC, lastDC, "mean trap DC dipped at %s", tier)
			assert.GreaterOrEqual(t, rarity, lastRarity, "mean loot rarity dipped at %s", tier)
		}
		lastChallenge, lastDC, lastRarity = challenge, trapDC, rarity
	}
}

func TestProfiles_OrderedByTier(t *testing.T) {
	profiles := dungeon.Profiles()
	require.Len(t, profiles, 4)
	assert.Equal(t, "easy", profiles[0].Tier)
	assert.Equal(t, "deadly", profiles[3].Tier)
}

func TestProfileFor_NormalizesTier(t *testing.T) {
	profile, err := dungeon.ProfileFor("  Hard ")
	require.NoError(t, err)
	assert.Equal(t, "hard", profile.Tier)
}
