package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossvale/delve-bot-discord/internal/combat"
	mockdice "github.com/mossvale/delve-bot-discord/internal/dice/mock"
)

func TestResolveAttack_HitRollsDamage(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	// Attack roll 15, then 2d6 damage of 4 and 5.
	roller.SetRolls([]int{15, 4, 5})

	attack := combat.Attack{
		Name:             "Longsword",
		AttackBonus:      4,
		DamageExpression: "2d6+2",
		DamageType:       "slashing",
	}
	outcome, err := combat.ResolveAttack(roller, attack, 15, combat.DamageTraits{})
	require.NoError(t, err)

	assert.True(t, outcome.Roll.Hits)
	assert.Equal(t, 11, outcome.Damage)
}

func TestResolveAttack_MissDealsNothing(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{3})

	attack := combat.Attack{AttackBonus: 2, DamageExpression: "1d8"}
	outcome, err := combat.ResolveAttack(roller, attack, 18, combat.DamageTraits{})
	require.NoError(t, err)

	assert.False(t, outcome.Roll.Hits)
	assert.Zero(t, outcome.Damage)
}

func TestResolveAttack_CriticalDoubles(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{20, 6})

	attack := combat.Attack{
		DamageExpression: "1d6+2",
		DamageType:       "piercing",
		CriticalDouble:   true,
	}
	outcome, err := combat.ResolveAttack(roller, attack, 30, combat.DamageTraits{})
	require.NoError(t, err)

	assert.True(t, outcome.Roll.IsCriticalHit)
	assert.Equal(t, 16, outcome.Damage)
}

func TestResolveAttack_CriticalWithoutPermissionDoesNotDouble(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{20, 6})

	attack := combat.Attack{DamageExpression: "1d6+2", DamageType: "piercing"}
	outcome, err := combat.ResolveAttack(roller, attack, 30, combat.DamageTraits{})
	require.NoError(t, err)

	assert.Equal(t, 8, outcome.Damage)
}

func TestResolveAttack_DefenderTraitsApply(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{15, 7})

	attack := combat.Attack{
		AttackBonus:      5,
		DamageExpression: "1d8",
		DamageType:       "fire",
	}
	traits := combat.DamageTraits{Resistances: []string{"fire"}}
	outcome, err := combat.ResolveAttack(roller, attack, 12, traits)
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Damage)
}

func TestResolveMultiattack_TotalIsSumOfOutcomes(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	// Bite: hits (12+4 vs 14), 6 damage. Claws: misses (5+4). Tail: hits, 3 damage.
	roller.SetRolls([]int{12, 6, 5, 11, 3})

	attacks := []combat.Attack{
		{Name: "Bite", AttackBonus: 4, DamageExpression: "1d8", DamageType: "piercing"},
		{Name: "Claws", AttackBonus: 4, DamageExpression: "1d6", DamageType: "slashing"},
		{Name: "Tail", AttackBonus: 4, DamageExpression: "1d4", DamageType: "bludgeoning"},
	}
	result, err := combat.ResolveMultiattack(roller, attacks, 14, combat.DamageTraits{})
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, "Bite", result.Outcomes[0].Attack.Name)
	assert.Equal(t, "Claws", result.Outcomes[1].Attack.Name)
	assert.Equal(t, "Tail", result.Outcomes[2].Attack.Name)

	sum := 0
	for _, outcome := range result.Outcomes {
		sum += outcome.Damage
	}
	assert.Equal(t, sum, result.TotalDamage)
	assert.Equal(t, 9, result.TotalDamage)
}

func TestResolveMultiattack_Empty(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	result, err := combat.ResolveMultiattack(roller, nil, 10, combat.DamageTraits{})
	require.NoError(t, err)
	assert.Empty(t, result.Outcomes)
	assert.Zero(t, result.TotalDamage)
}
