package dice

// Roller provides an interface for rolling dice
// This allows us to inject deterministic implementations for replay and tests
type Roller interface {
	// Roll rolls a number of dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)

	// RollWithAdvantage rolls two dice, keeping the higher
	RollWithAdvantage(sides, bonus int) (*RollResult, error)

	// RollWithDisadvantage rolls two dice, keeping the lower
	RollWithDisadvantage(sides, bonus int) (*RollResult, error)
}

// RollResult captures a single resolved roll
type RollResult struct {
	Total    int
	Rolls    []int
	Bonus    int
	Count    int
	Sides    int
	RawTotal int
	IsCrit   bool
	IsFumble bool
}

// Natural returns the kept die face for a single-die roll
func (r *RollResult) Natural() int {
	if len(r.Rolls) == 0 {
		return 0
	}
	return r.RawTotal
}
