package combat

import (
	"github.com/mossvale/delve-bot-discord/internal/domain/content"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// SlotPool tracks a replenishable resource such as spell slots of one level
type SlotPool struct {
	Max       int `json:"max"`
	Available int `json:"available"`
}

// Use decrements the pool atomically with respect to the calling turn
func (p *SlotPool) Use(amount int) error {
	if p == nil || p.Available < amount {
		return dnderr.ResourceExhausted("no uses remaining")
	}
	p.Available -= amount
	return nil
}

// CombatantState is the mutable per-combat record for one participant
type CombatantState struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	UserID          string               `json:"user_id,omitempty"`
	IsPlayer        bool                 `json:"is_player"`
	InitiativeRoll  int                  `json:"initiative_roll"`
	InitiativeTotal int                  `json:"initiative_total"`
	MaxHP           int                  `json:"max_hp"`
	CurrentHP       int                  `json:"current_hp"`
	ArmorClass      int                  `json:"armor_class"`
	AttackBonus     int                  `json:"attack_bonus"`
	Damage          string               `json:"damage"`
	DamageType      string               `json:"damage_type,omitempty"`
	Conditions      map[string]bool      `json:"conditions"`
	SpellSlots      map[int]*SlotPool    `json:"spell_slots,omitempty"`
	FeatureUses     map[string]*SlotPool `json:"feature_uses,omitempty"`
	SavingThrows    map[string]int       `json:"saving_throws,omitempty"`
	Resistances     []string             `json:"resistances,omitempty"`
	Vulnerabilities []string             `json:"vulnerabilities,omitempty"`
	Immunities      []string             `json:"immunities,omitempty"`

	// Monster capability metadata, nil for players
	Monster *content.Monster `json:"monster,omitempty"`

	// Death save tracking, players only
	DeathSaveSuccesses int  `json:"death_save_successes"`
	DeathSaveFailures  int  `json:"death_save_failures"`
	Stable             bool `json:"stable"`
}

// Conscious reports whether the combatant is above zero hit points
func (c *CombatantState) Conscious() bool {
	return c.CurrentHP > 0
}

// IsDead reports death: monsters die at zero, players at three failed saves
func (c *CombatantState) IsDead() bool {
	if !c.IsPlayer {
		return c.CurrentHP <= 0
	}
	return c.CurrentHP <= 0 && c.DeathSaveFailures >= 3
}

// Defeated reports whether the combatant is out of the fight
func (c *CombatantState) Defeated() bool {
	if !c.IsPlayer {
		return c.CurrentHP <= 0
	}
	if c.CurrentHP > 0 {
		return false
	}
	return c.IsDead() || c.Stable
}

// AddCondition records an active condition by name
func (c *CombatantState) AddCondition(name string) {
	if name == "" {
		return
	}
	if c.Conditions == nil {
		c.Conditions = make(map[string]bool)
	}
	c.Conditions[name] = true
}

// RemoveCondition clears an active condition
func (c *CombatantState) RemoveCondition(name string) {
	delete(c.Conditions, name)
}

// HasCondition reports whether the condition is active
func (c *CombatantState) HasCondition(name string) bool {
	return c.Conditions[name]
}

// UseSpellSlot spends count slots of the given level
func (c *CombatantState) UseSpellSlot(level, count int) error {
	pool, ok := c.SpellSlots[level]
	if !ok {
		return dnderr.ResourceExhaustedf("no level %d spell slots remaining", level)
	}
	if err := pool.Use(count); err != nil {
		return dnderr.ResourceExhaustedf("no level %d spell slots remaining", level)
	}
	return nil
}

// SaveBonus returns the combatant's bonus for an ability saving throw
func (c *CombatantState) SaveBonus(ability string) int {
	if bonus, ok := c.SavingThrows[ability]; ok {
		return bonus
	}
	if c.Monster != nil {
		return c.Monster.AbilityModifier(ability)
	}
	return 0
}
