package combat

import (
	"github.com/mossvale/delve-bot-discord/internal/dice"
)

// Attack is a single declared attack ready to resolve
type Attack struct {
	Name                string
	AttackBonus         int
	DamageExpression    string
	DamageType          string
	AdvantageSources    []string
	DisadvantageSources []string
	CriticalDouble      bool
}

// AttackOutcome is the result of resolving one attack
type AttackOutcome struct {
	Attack Attack
	Roll   AttackRollResult
	Damage int
}

// ResolveAttack rolls the attack and, on a hit, rolls and adjusts damage for
// the defender's traits. A critical hit doubles the damage when the attack
// permits it.
func ResolveAttack(roller dice.Roller, attack Attack, targetAC int, traits DamageTraits) (*AttackOutcome, error) {
	state := CollapseAdvantage(attack.AdvantageSources, attack.DisadvantageSources)
	roll, err := AttackRoll(roller, attack.AttackBonus, targetAC, state)
	if err != nil {
		return nil, err
	}

	outcome := &AttackOutcome{Attack: attack, Roll: *roll}
	if !roll.Hits {
		return outcome, nil
	}

	damageRoll, err := dice.RollExpression(roller, attack.DamageExpression)
	if err != nil {
		return nil, err
	}
	amount := damageRoll.Total
	if roll.IsCriticalHit && attack.CriticalDouble {
		amount *= 2
	}
	outcome.Damage = ApplyDamage([]DamagePacket{{Amount: amount, DamageType: attack.DamageType}}, traits)
	return outcome, nil
}

// MultiattackResult aggregates an ordered sequence of attacks
type MultiattackResult struct {
	Outcomes    []AttackOutcome
	TotalDamage int
}

// ResolveMultiattack resolves attacks sequentially in input order. The total
// equals the sum of the individual outcome damages.
func ResolveMultiattack(roller dice.Roller, attacks []Attack, targetAC int, traits DamageTraits) (*MultiattackResult, error) {
	result := &MultiattackResult{Outcomes: make([]AttackOutcome, 0, len(attacks))}
	for _, attack := range attacks {
		outcome, err := ResolveAttack(roller, attack, targetAC, traits)
		if err != nil {
			return nil, err
		}
		result.Outcomes = append(result.Outcomes, *outcome)
		result.TotalDamage += outcome.Damage
	}
	return result, nil
}
