package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossvale/delve-bot-discord/internal/domain/character"
	"github.com/mossvale/delve-bot-discord/internal/domain/combat"
)

func TestAbilityModifier(t *testing.T) {
	char := &character.Character{Abilities: map[string]int{"STR": 16, "DEX": 8}}

	assert.Equal(t, 3, char.AbilityModifier("STR"))
	assert.Equal(t, -1, char.AbilityModifier("DEX"))
	assert.Equal(t, 3, char.AbilityModifier("str"))
	// Unlisted scores default to 10.
	assert.Equal(t, 0, char.AbilityModifier("WIS"))
}

func TestSaveBonus_ExplicitBeatsDerived(t *testing.T) {
	char := &character.Character{
		Abilities:    map[string]int{"CON": 14},
		SavingThrows: map[string]int{"CON": 5},
	}

	assert.Equal(t, 5, char.SaveBonus("CON"))
	assert.Equal(t, 0, char.SaveBonus("INT"))
}

func TestToCombatant(t *testing.T) {
	char := &character.Character{
		ID:          "char-1",
		OwnerID:     "user-1",
		Name:        "Brynn",
		MaxHP:       24,
		CurrentHP:   17,
		ArmorClass:  15,
		AttackBonus: 5,
		Damage:      "1d8+3",
		DamageType:  "slashing",
		Abilities:   map[string]int{"DEX": 14},
		Resistances: []string{"fire"},
		SpellSlots:  map[int]*combat.SlotPool{1: {Max: 3, Available: 2}},
	}

	c := char.ToCombatant()

	assert.True(t, c.IsPlayer)
	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, 17, c.CurrentHP)
	assert.Equal(t, 2, c.SavingThrows["DEX"])
	assert.Equal(t, 0, c.SavingThrows["STR"])
	assert.Equal(t, []string{"fire"}, c.Resistances)

	// Slots are copied, not shared.
	require.NotNil(t, c.SpellSlots[1])
	require.NoError(t, c.UseSpellSlot(1, 1))
	assert.Equal(t, 2, char.SpellSlots[1].Available)
	assert.Equal(t, 1, c.SpellSlots[1].Available)
}

func TestToCombatant_RestoresZeroHP(t *testing.T) {
	char := &character.Character{ID: "c", Name: "Brynn", MaxHP: 24, CurrentHP: 0}

	c := char.ToCombatant()
	assert.Equal(t, 24, c.CurrentHP)
}

func TestAddItem(t *testing.T) {
	char := &character.Character{}
	char.AddItem("healing_potion")
	char.AddItem("torch_bundle")
	assert.Equal(t, []string{"healing_potion", "torch_bundle"}, char.Inventory)
}
