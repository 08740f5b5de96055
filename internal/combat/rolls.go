package combat

import (
	"github.com/mossvale/delve-bot-discord/internal/dice"
)

// AdvantageState is the collapsed advantage/disadvantage of a roll
type AdvantageState int

const (
	Neutral AdvantageState = iota
	Advantage
	Disadvantage
)

// CollapseAdvantage reduces advantage and disadvantage sources to a single
// state. Sources on both sides cancel to neutral regardless of count.
func CollapseAdvantage(advantageSources, disadvantageSources []string) AdvantageState {
	hasAdvantage := len(advantageSources) > 0
	hasDisadvantage := len(disadvantageSources) > 0
	switch {
	case hasAdvantage && hasDisadvantage:
		return Neutral
	case hasAdvantage:
		return Advantage
	case hasDisadvantage:
		return Disadvantage
	default:
		return Neutral
	}
}

func rollD20(roller dice.Roller, bonus int, state AdvantageState) (*dice.RollResult, error) {
	switch state {
	case Advantage:
		return roller.RollWithAdvantage(20, bonus)
	case Disadvantage:
		return roller.RollWithDisadvantage(20, bonus)
	default:
		return roller.Roll(1, 20, bonus)
	}
}

// AttackRollResult is one resolved attack roll
type AttackRollResult struct {
	Total           int
	Natural         int
	IsCriticalHit   bool
	IsAutomaticMiss bool
	Hits            bool
}

// AttackRoll resolves a d20 attack against an armor class. A natural 20 hits
// unconditionally, even under disadvantage; a natural 1 always misses.
func AttackRoll(roller dice.Roller, attackBonus, targetAC int, state AdvantageState) (*AttackRollResult, error) {
	roll, err := rollD20(roller, attackBonus, state)
	if err != nil {
		return nil, err
	}

	result := &AttackRollResult{
		Total:           roll.Total,
		Natural:         roll.RawTotal,
		IsCriticalHit:   roll.RawTotal == 20,
		IsAutomaticMiss: roll.RawTotal == 1,
	}
	switch {
	case result.IsCriticalHit:
		result.Hits = true
	case result.IsAutomaticMiss:
		result.Hits = false
	default:
		result.Hits = result.Total >= targetAC
	}
	return result, nil
}

// SavingThrowResult is one resolved saving throw
type SavingThrowResult struct {
	Total   int
	Natural int
	Success bool
}

// SavingThrow resolves a d20 save against a difficulty class. A natural 20
// succeeds regardless of the total.
func SavingThrow(roller dice.Roller, saveBonus, dc int, state AdvantageState) (*SavingThrowResult, error) {
	roll, err := rollD20(roller, saveBonus, state)
	if err != nil {
		return nil, err
	}
	return &SavingThrowResult{
		Total:   roll.Total,
		Natural: roll.RawTotal,
		Success: roll.Total >= dc || roll.RawTotal == 20,
	}, nil
}

// InitiativeResult is a single participant's initiative roll
type InitiativeResult struct {
	Name  string
	Roll  int
	Total int
}

// RollInitiative rolls a d20 plus bonus for one participant
func RollInitiative(roller dice.Roller, name string, bonus int) (*InitiativeResult, error) {
	roll, err := roller.Roll(1, 20, bonus)
	if err != nil {
		return nil, err
	}
	return &InitiativeResult{Name: name, Roll: roll.RawTotal, Total: roll.Total}, nil
}
