package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mossvale/delve-bot-discord/internal/combat"
)

func TestApplyDamage(t *testing.T) {
	tests := []struct {
		name     string
		packets  []combat.DamagePacket
		traits   combat.DamageTraits
		expected int
	}{
		{
			name:     "plain sum",
			packets:  []combat.DamagePacket{{Amount: 4, DamageType: "slashing"}, {Amount: 3, DamageType: "fire"}},
			expected: 7,
		},
		{
			name:     "immunity zeroes the packet",
			packets:  []combat.DamagePacket{{Amount: 10, DamageType: "poison"}, {Amount: 2, DamageType: "slashing"}},
			traits:   combat.DamageTraits{Immunities: []string{"poison"}},
			expected: 2,
		},
		{
			name:     "resistance halves rounding down",
			packets:  []combat.DamagePacket{{Amount: 7, DamageType: "fire"}},
			traits:   combat.DamageTraits{Resistances: []string{"fire"}},
			expected: 3,
		},
		{
			name:     "vulnerability doubles",
			packets:  []combat.DamagePacket{{Amount: 6, DamageType: "bludgeoning"}},
			traits:   combat.DamageTraits{Vulnerabilities: []string{"bludgeoning"}},
			expected: 12,
		},
		{
			name:    "resisted and vulnerable is neutral",
			packets: []combat.DamagePacket{{Amount: 9, DamageType: "cold"}},
			traits: combat.DamageTraits{
				Resistances:     []string{"cold"},
				Vulnerabilities: []string{"cold"},
			},
			expected: 9,
		},
		{
			name:     "negative packets count as zero",
			packets:  []combat.DamagePacket{{Amount: -5, DamageType: "fire"}, {Amount: 3, DamageType: "fire"}},
			expected: 3,
		},
		{
			name:     "trait matching is case insensitive",
			packets:  []combat.DamagePacket{{Amount: 8, DamageType: "Necrotic"}},
			traits:   combat.DamageTraits{Resistances: []string{"NECROTIC"}},
			expected: 4,
		},
		{
			name:     "untyped damage ignores traits",
			packets:  []combat.DamagePacket{{Amount: 5}},
			traits:   combat.DamageTraits{Immunities: []string{"fire"}},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, combat.ApplyDamage(tt.packets, tt.traits))
		})
	}
}
