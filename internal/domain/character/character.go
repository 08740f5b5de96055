package character

import (
	"strings"
	"time"

	"github.com/mossvale/delve-bot-discord/internal/domain/combat"
	"github.com/mossvale/delve-bot-discord/internal/domain/content"
)

// Character is an adventurer owned by one user within one guild. The core
// only touches the fields combat and reward computation need.
type Character struct {
	ID           string                   `json:"id"`
	OwnerID      string                   `json:"owner_id"`
	GuildID      string                   `json:"guild_id"`
	Name         string                   `json:"name"`
	Level        int                      `json:"level"`
	MaxHP        int                      `json:"max_hp"`
	CurrentHP    int                      `json:"current_hp"`
	ArmorClass   int                      `json:"armor_class"`
	AttackBonus  int                      `json:"attack_bonus"`
	Damage       string                   `json:"damage"`
	DamageType   string                   `json:"damage_type,omitempty"`
	Abilities    map[string]int           `json:"abilities,omitempty"`
	SavingThrows map[string]int           `json:"saving_throws,omitempty"`
	Resistances  []string                 `json:"resistances,omitempty"`
	Inventory    []string                 `json:"inventory,omitempty"`
	Gold         int                      `json:"gold"`
	SpellSlots   map[int]*combat.SlotPool `json:"spell_slots,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// AbilityModifier returns the character's modifier for an ability score
func (c *Character) AbilityModifier(ability string) int {
	score, ok := c.Abilities[strings.ToUpper(ability)]
	if !ok {
		score = 10
	}
	return content.AbilityModifier(score)
}

// SaveBonus prefers an explicit saving throw bonus, falling back to the
// ability modifier.
func (c *Character) SaveBonus(ability string) int {
	if bonus, ok := c.SavingThrows[strings.ToUpper(ability)]; ok {
		return bonus
	}
	return c.AbilityModifier(ability)
}

// AddItem records a looted item key in the inventory
func (c *Character) AddItem(key string) {
	c.Inventory = append(c.Inventory, key)
}

// ToCombatant snapshots the character into a fresh combat record
func (c *Character) ToCombatant() *combat.CombatantState {
	slots := make(map[int]*combat.SlotPool, len(c.SpellSlots))
	for level, pool := range c.SpellSlots {
		if pool == nil {
			continue
		}
		slots[level] = &combat.SlotPool{Max: pool.Max, Available: pool.Available}
	}

	saves := make(map[string]int)
	for _, ability := range []string{"STR", "DEX", "CON", "INT", "WIS", "CHA"} {
		saves[ability] = c.SaveBonus(ability)
	}

	hp := c.CurrentHP
	if hp <= 0 {
		hp = c.MaxHP
	}

	return &combat.CombatantState{
		ID:           c.ID,
		Name:         c.Name,
		UserID:       c.OwnerID,
		IsPlayer:     true,
		MaxHP:        c.MaxHP,
		CurrentHP:    hp,
		ArmorClass:   c.ArmorClass,
		AttackBonus:  c.AttackBonus,
		Damage:       c.Damage,
		DamageType:   c.DamageType,
		SavingThrows: saves,
		SpellSlots:   slots,
		Resistances:  c.Resistances,
	}
}
