package dice

import (
	"math/rand"
	"time"

	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// randomRoller implements Roller over a math/rand source
type randomRoller struct {
	rng *rand.Rand
}

// NewRandomRoller creates a roller seeded from the wall clock
func NewRandomRoller() Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller creates a roller with an explicit seed so sequences replay
func NewSeededRoller(seed int64) Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randomRoller) roll(sides int) int {
	return r.rng.Intn(sides) + 1
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, dnderr.InvalidArgument("dice count must be positive")
	}
	if sides < 1 {
		return nil, dnderr.InvalidArgument("dice sides must be positive")
	}

	rolls := make([]int, count)
	rawTotal := 0
	for i := 0; i < count; i++ {
		rolls[i] = r.roll(sides)
		rawTotal += rolls[i]
	}

	result := &RollResult{
		Total:    rawTotal + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: rawTotal,
	}

	if count == 1 && sides == 20 {
		result.IsCrit = rolls[0] == 20
		result.IsFumble = rolls[0] == 1
	}

	return result, nil
}

// RollWithAdvantage implements Roller.RollWithAdvantage
func (r *randomRoller) RollWithAdvantage(sides, bonus int) (*RollResult, error) {
	if sides < 1 {
		return nil, dnderr.InvalidArgument("dice sides must be positive")
	}

	roll1 := r.roll(sides)
	roll2 := r.roll(sides)
	kept := roll1
	if roll2 > kept {
		kept = roll2
	}

	return keptResult(kept, []int{roll1, roll2}, sides, bonus), nil
}

// RollWithDisadvantage implements Roller.RollWithDisadvantage
func (r *randomRoller) RollWithDisadvantage(sides, bonus int) (*RollResult, error) {
	if sides < 1 {
		return nil, dnderr.InvalidArgument("dice sides must be positive")
	}

	roll1 := r.roll(sides)
	roll2 := r.roll(sides)
	kept := roll1
	if roll2 < kept {
		kept = roll2
	}

	return keptResult(kept, []int{roll1, roll2}, sides, bonus), nil
}

func keptResult(kept int, rolls []int, sides, bonus int) *RollResult {
	result := &RollResult{
		Total:    kept + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    1,
		Sides:    sides,
		RawTotal: kept,
	}
	if sides == 20 {
		result.IsCrit = kept == 20
		result.IsFumble = kept == 1
	}
	return result
}
