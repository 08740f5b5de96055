package combat_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossvale/delve-bot-discord/internal/domain/combat"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

func combatant(id string, total, roll int, player bool) *combat.CombatantState {
	return &combat.CombatantState{
		ID:              id,
		Name:            id,
		IsPlayer:        player,
		InitiativeTotal: total,
		InitiativeRoll:  roll,
		MaxHP:           10,
		CurrentHP:       10,
	}
}

func TestSortByInitiative(t *testing.T) {
	state := combat.NewState()
	state.Order = []*combat.CombatantState{
		combatant("low", 5, 5, true),
		combatant("tied-low-roll", 15, 11, false),
		combatant("tied-high-roll", 15, 14, true),
		combatant("high", 20, 18, false),
	}

	state.SortByInitiative()

	ids := make([]string, 0, len(state.Order))
	for _, c := range state.Order {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"high", "tied-high-roll", "tied-low-roll", "low"}, ids)
}

func TestSortByInitiative_FullTiesKeepOrder(t *testing.T) {
	state := combat.NewState()
	state.Order = []*combat.CombatantState{
		combatant("first", 12, 10, true),
		combatant("second", 12, 10, false),
	}

	state.SortByInitiative()
	state.SortByInitiative()

	assert.Equal(t, "first", state.Order[0].ID)
	assert.Equal(t, "second", state.Order[1].ID)
}

func TestAdvanceTurn_SkipsDefeatedAndBumpsRound(t *testing.T) {
	state := combat.NewState()
	state.Order = []*combat.CombatantState{
		combatant("a", 20, 20, true),
		combatant("b", 15, 15, false),
		combatant("c", 10, 10, false),
	}
	state.Order[1].CurrentHP = 0

	next := state.AdvanceTurn()
	require.NotNil(t, next)
	assert.Equal(t, "c", next.ID)
	assert.Equal(t, 1, state.Round)

	next = state.AdvanceTurn()
	require.NotNil(t, next)
	assert.Equal(t, "a", next.ID)
	assert.Equal(t, 2, state.Round)
}

func TestAdvanceTurn_NobodyLeft(t *testing.T) {
	state := combat.NewState()
	state.Order = []*combat.CombatantState{
		combatant("a", 20, 20, false),
	}
	state.Order[0].CurrentHP = 0

	assert.Nil(t, state.AdvanceTurn())
}

func TestAppendLog_TrimsWindow(t *testing.T) {
	state := combat.NewState()
	for i := 0; i < 20; i++ {
		state.AppendLog(fmt.Sprintf("entry %d", i))
	}

	require.Len(t, state.Log, 12)
	assert.Equal(t, "entry 8", state.Log[0])
	assert.Equal(t, "entry 19", state.Log[len(state.Log)-1])
}

func TestUseSpellSlot(t *testing.T) {
	c := combatant("caster", 10, 10, true)
	c.SpellSlots = map[int]*combat.SlotPool{1: {Max: 2, Available: 2}}

	require.NoError(t, c.UseSpellSlot(1, 1))
	require.NoError(t, c.UseSpellSlot(1, 1))

	err := c.UseSpellSlot(1, 1)
	require.Error(t, err)
	assert.True(t, dnderr.IsResourceExhausted(err))

	err = c.UseSpellSlot(3, 1)
	require.Error(t, err)
	assert.True(t, dnderr.IsResourceExhausted(err))
}

func TestDefeated(t *testing.T) {
	monster := combatant("m", 10, 10, false)
	monster.CurrentHP = 0
	assert.True(t, monster.Defeated())
	assert.True(t, monster.IsDead())

	// A downed player still making death saves is not out of the fight.
	player := combatant("p", 10, 10, true)
	player.CurrentHP = 0
	assert.False(t, player.Defeated())
	assert.False(t, player.IsDead())

	player.Stable = true
	assert.True(t, player.Defeated())
	assert.False(t, player.IsDead())

	player.Stable = false
	player.DeathSaveFailures = 3
	assert.True(t, player.Defeated())
	assert.True(t, player.IsDead())
}
