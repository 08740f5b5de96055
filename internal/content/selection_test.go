package content_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossvale/delve-bot-discord/internal/content"
	domcontent "github.com/mossvale/delve-bot-discord/internal/domain/content"
)

func monsterPool() []*domcontent.Monster {
	return []*domcontent.Monster{
		{Key: "rat", Challenge: 0.125},
		{Key: "skeleton", Challenge: 0.25},
		{Key: "ghoul", Challenge: 1},
		{Key: "wight", Challenge: 3},
	}
}

func TestWeightedDraw_RespectsBand(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	band := content.Band{Min: 0.2, Max: 1}

	picked := content.RandomMonsters(rng, monsterPool(), 50, band, 1)
	require.Len(t, picked, 50)
	for _, monster := range picked {
		assert.True(t, band.Contains(monster.Challenge), "picked %s outside band", monster.Key)
	}
}

func TestWeightedDraw_EmptyBandFallsBackToNearest(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	// Nothing has challenge 10+, the draw must still return entries.
	band := content.Band{Min: 10, Max: 20}

	picked := content.RandomMonsters(rng, monsterPool(), 5, band, 1)
	require.Len(t, picked, 5)
	for _, monster := range picked {
		// The wight at challenge 3 is the closest to the band.
		assert.Equal(t, "wight", monster.Key)
	}
}

func TestWeightedDraw_NeverEmptyForAnyBand(t *testing.T) {
	pool := monsterPool()
	bands := []content.Band{
		{Min: -10, Max: -5},
		{Min: 0, Max: 0.01},
		{Min: 0.5, Max: 0.5},
		{Min: 100, Max: 200},
	}
	rng := rand.New(rand.NewSource(11))
	for _, band := range bands {
		picked := content.RandomMonsters(rng, pool, 3, band, 2)
		assert.Len(t, picked, 3, "band [%v,%v] returned an empty draw", band.Min, band.Max)
	}
}

func TestWeightedDraw_EmptyPopulation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Nil(t, content.RandomMonsters(rng, nil, 3, content.Band{Max: 5}, 1))
}

func TestWeightedDraw_BiasFavorsHigherMetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := []*domcontent.Item{
		{Key: "trinket", Rarity: "common"},
		{Key: "crown", Rarity: "legendary"},
	}

	counts := map[string]int{}
	for _, item := range content.RandomLoot(rng, items, 2000, content.Band{Min: 0, Max: 5}, 4) {
		counts[item.Key]++
	}
	assert.Greater(t, counts["crown"], counts["trinket"],
		"a strong positive bias should favor the higher rarity rank")
}

func TestWeightedDraw_DeterministicForSeed(t *testing.T) {
	pool := monsterPool()
	band := content.Band{Min: 0, Max: 5}

	first := content.RandomMonsters(rand.New(rand.NewSource(99)), pool, 10, band, 1.5)
	second := content.RandomMonsters(rand.New(rand.NewSource(99)), pool, 10, band, 1.5)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Key, second[i].Key)
	}
}

func TestRandomTraps_DrawsBySaveDC(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	traps := []*domcontent.Trap{
		{Key: "pit", SaveDC: 10},
		{Key: "darts", SaveDC: 13},
		{Key: "flame", SaveDC: 15},
	}
	picked := content.RandomTraps(rng, traps, 20, content.Band{Min: 12, Max: 14}, 1)
	require.Len(t, picked, 20)
	for _, trap := range picked {
		assert.Equal(t, "darts", trap.Key)
	}
}
