package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossvale/delve-bot-discord/internal/dice"
	mockdice "github.com/mossvale/delve-bot-discord/internal/dice/mock"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		expr     string
		count    int
		sides    int
		modifier int
	}{
		{"1d6", 1, 6, 0},
		{"2d8+3", 2, 8, 3},
		{"1d20-1", 1, 20, -1},
		{"10d4+12", 10, 4, 12},
		{"1D6+2", 1, 6, 2},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			parsed, err := dice.ParseExpression(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.count, parsed.Count)
			assert.Equal(t, tt.sides, parsed.Sides)
			assert.Equal(t, tt.modifier, parsed.Modifier)
		})
	}
}

func TestParseExpression_Invalid(t *testing.T) {
	for _, expr := range []string{"", "d6", "2d", "two d six", "1d6+", "1d6 + 2", "0d6", "1d0"} {
		t.Run(expr, func(t *testing.T) {
			_, err := dice.ParseExpression(expr)
			require.Error(t, err)
			assert.True(t, dnderr.IsInvalidArgument(err))
		})
	}
}

func TestRollExpression(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{4, 6})

	result, err := dice.RollExpression(roller, "2d6+3")
	require.NoError(t, err)
	assert.Equal(t, 13, result.Total)
	assert.Equal(t, 10, result.RawTotal)
	assert.Equal(t, []int{4, 6}, result.Rolls)
}

func TestRollExpression_InvalidExpressionRollsNothing(t *testing.T) {
	roller := mockdice.NewManualMockRoller()

	_, err := dice.RollExpression(roller, "banana")
	require.Error(t, err)
}
