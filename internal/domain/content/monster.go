package content

import (
	"strings"

	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// ActionKind discriminates monster action variants
type ActionKind string

const (
	ActionKindMelee ActionKind = "melee"
	ActionKindSave  ActionKind = "save"
	ActionKindAuto  ActionKind = "auto"
)

// MonsterAction is one declared action a monster can take in combat.
// The variant is validated at content-load time so combat never sees a
// malformed definition kind.
type MonsterAction struct {
	Name        string     `yaml:"name"`
	Kind        ActionKind `yaml:"kind"`
	AttackBonus int        `yaml:"attack_bonus"`
	Damage      string     `yaml:"damage"`
	DamageType  string     `yaml:"damage_type"`

	// Save variant fields
	SaveDC         int      `yaml:"save_dc"`
	SaveAbility    string   `yaml:"save_ability"`
	HalfOnSuccess  bool     `yaml:"half_on_success"`
	FailConditions []string `yaml:"fail_conditions"`

	// Auto variant fields
	Conditions []string `yaml:"conditions"`
}

// Validate checks the per-kind required fields
func (a *MonsterAction) Validate() error {
	if a.Name == "" {
		return dnderr.InvalidArgument("monster action requires a name")
	}
	switch a.Kind {
	case ActionKindMelee:
		if a.Damage == "" {
			return dnderr.InvalidArgumentf("melee action %q requires damage", a.Name)
		}
	case ActionKindSave:
		if a.SaveDC <= 0 {
			return dnderr.InvalidArgumentf("save action %q requires a positive save_dc", a.Name)
		}
		if a.SaveAbility == "" {
			return dnderr.InvalidArgumentf("save action %q requires a save_ability", a.Name)
		}
	case ActionKindAuto:
		if a.Damage == "" && len(a.Conditions) == 0 {
			return dnderr.InvalidArgumentf("auto action %q requires damage or conditions", a.Name)
		}
	default:
		return dnderr.InvalidArgumentf("unknown action kind %q on %q", a.Kind, a.Name)
	}
	return nil
}

// MultiattackRef names a declared action repeated within a multiattack
type MultiattackRef struct {
	Ref   string `yaml:"ref"`
	Count int    `yaml:"count"`
}

// Monster is an immutable combat-ready monster definition
type Monster struct {
	Key             string           `yaml:"key"`
	Name            string           `yaml:"name"`
	Challenge       float64          `yaml:"challenge"`
	ArmorClass      int              `yaml:"armor_class"`
	HitPoints       int              `yaml:"hit_points"`
	AttackBonus     int              `yaml:"attack_bonus"`
	Damage          string           `yaml:"damage"`
	DamageType      string           `yaml:"damage_type"`
	AbilityScores   map[string]int   `yaml:"ability_scores"`
	Resistances     []string         `yaml:"resistances"`
	Vulnerabilities []string         `yaml:"vulnerabilities"`
	Immunities      []string         `yaml:"immunities"`
	Actions         []MonsterAction  `yaml:"actions"`
	Multiattack     []MultiattackRef `yaml:"multiattack"`
	Aliases         []string         `yaml:"aliases"`
	Tags            []string         `yaml:"tags"`
}

// Validate applies defaults and checks action references
func (m *Monster) Validate() error {
	if m.Name == "" {
		m.Name = m.Key
	}
	if m.ArmorClass <= 0 {
		m.ArmorClass = 10
	}
	if m.HitPoints <= 0 {
		m.HitPoints = 1
	}
	if m.Damage == "" {
		m.Damage = "1d6"
	}

	for i := range m.Actions {
		if m.Actions[i].Kind == "" {
			m.Actions[i].Kind = ActionKindMelee
		}
		if err := m.Actions[i].Validate(); err != nil {
			return dnderr.Wrapf(err, "monster %q", m.Key)
		}
	}
	for _, ref := range m.Multiattack {
		if m.FindAction(ref.Ref) == nil {
			return dnderr.InvalidArgumentf("monster %q multiattack references unknown action %q", m.Key, ref.Ref)
		}
	}
	return nil
}

// FindAction returns the declared action matching name, nil when absent
func (m *Monster) FindAction(name string) *MonsterAction {
	needle := strings.ToLower(strings.TrimSpace(name))
	for i := range m.Actions {
		if strings.ToLower(m.Actions[i].Name) == needle {
			return &m.Actions[i]
		}
	}
	return nil
}

// AbilityModifier returns the modifier for one of the monster's ability scores
func (m *Monster) AbilityModifier(ability string) int {
	score, ok := m.AbilityScores[strings.ToUpper(ability)]
	if !ok {
		score = 10
	}
	return AbilityModifier(score)
}

// AbilityModifier converts an ability score to its modifier, rounding down
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return -((-diff + 1) / 2)
	}
	return diff / 2
}
